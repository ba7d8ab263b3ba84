// Package settlement turns a verified payment into a recorded donation and a
// fund increment. Payment, donation and fund writes share one transaction.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/amirasaad/donation/pkg/eventbus"
	"github.com/amirasaad/donation/pkg/repository"
	paymentrepo "github.com/amirasaad/donation/pkg/repository/payment"
	"github.com/amirasaad/donation/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// maxTransactionIDLength matches the payments.transaction_id column.
const maxTransactionIDLength = 128

// Config carries deployment defaults applied to every donation.
type Config struct {
	PaymentMethod  string
	DefaultPurpose string
}

// Request is the input of a settlement. Only Amount and TransactionID are required.
type Request struct {
	Amount        float64
	TransactionID string
	DonorName     string
	Email         string
	Phone         string
	Purpose       string
	UserID        *uuid.UUID
}

// Result holds the records of a settlement. Replayed is true when the
// transaction identifier had already been settled and nothing was written.
type Result struct {
	Payment  *payment.Payment   `json:"payment"`
	Donation *donation.Donation `json:"donation"`
	Fund     *fund.Fund         `json:"fund,omitempty"`
	Replayed bool               `json:"replayed"`
}

// Service settles donations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	cfg    Config
	logger *slog.Logger
	group  singleflight.Group
}

// New creates a settlement Service. bus may be nil.
func New(uow repository.UnitOfWork, bus eventbus.Bus, cfg Config, logger *slog.Logger) *Service {
	if cfg.PaymentMethod == "" {
		cfg.PaymentMethod = donation.DefaultPaymentMethod
	}
	if cfg.DefaultPurpose == "" {
		cfg.DefaultPurpose = donation.DefaultPurpose
	}
	return &Service{
		uow:    uow,
		bus:    bus,
		cfg:    cfg,
		logger: logger.With("service", "settlement"),
	}
}

// Settle records the payment, the donation and the fund increment for req.
//
// Errors are classifiable with domain.KindOf: invalid input and a missing
// active fund are returned as is, every other failure wraps domain.ErrInternal.
// A duplicate transaction identifier is not an error: the stored records are
// returned with Replayed set.
func (s *Service) Settle(ctx context.Context, req Request) (*Result, error) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if err := validate(req); err != nil {
		return nil, err
	}
	logger := s.logger.With("transaction_id", req.TransactionID)
	if email := strings.TrimSpace(req.Email); email != "" && !utils.IsEmail(email) {
		logger.Warn("dropping malformed donor email", "donor_email", utils.MaskEmail(email))
		req.Email = ""
	}

	// The shared call outlives the caller that started it, so coalesced
	// callers are not failed by another caller's cancellation.
	executed := false
	ch := s.group.DoChan(req.TransactionID, func() (any, error) {
		executed = true
		return s.settle(context.WithoutCancel(ctx), logger, req)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*Result)
		if !executed {
			// Coalesced with an in-flight settlement of the same identifier.
			res.Replayed = true
		}
		return &res, nil
	}
}

func (s *Service) settle(ctx context.Context, logger *slog.Logger, req Request) (*Result, error) {
	var res *Result
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		res, err = s.settleTx(ctx, logger, uow, req)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyExists):
		// Another process won the race between our payment and donation writes.
		logger.Info("settlement raced with a concurrent writer; returning stored records")
		return s.fetchSettled(ctx, req.TransactionID)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNoActiveFund):
		logger.Warn("settlement rejected", "error", err)
		return nil, err
	case errors.Is(err, domain.ErrValidation):
		// A storage constraint refused the values.
		logger.Warn("settlement rejected by storage constraint", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	default:
		logger.Error("settlement failed", "error", err)
		return nil, fmt.Errorf("%w: settlement failed: %w", domain.ErrInternal, err)
	}

	if res.Replayed {
		if res.Payment.Amount != req.Amount {
			logger.Warn("replayed transaction with a different amount",
				"stored_amount", res.Payment.Amount, "requested_amount", req.Amount)
		}
		logger.Info("settlement replayed")
		return res, nil
	}

	logger.Info("donation settled",
		"amount", res.Donation.Amount,
		"fund_id", res.Fund.ID,
		"fund_status", res.Fund.Status,
		"donor_email", utils.MaskEmail(res.Donation.Donor.Email),
	)
	s.emit(ctx, logger, res)
	return res, nil
}

func (s *Service) settleTx(ctx context.Context, logger *slog.Logger, uow repository.UnitOfWork, req Request) (*Result, error) {
	payments, err := uow.PaymentRepository()
	if err != nil {
		return nil, err
	}
	donations, err := uow.DonationRepository()
	if err != nil {
		return nil, err
	}
	funds, err := uow.FundRepository()
	if err != nil {
		return nil, err
	}

	p, wasNew, err := RecordOrFetchPayment(ctx, payments, req.TransactionID, req.Amount, req.UserID)
	if err != nil {
		return nil, err
	}
	if !wasNew {
		d, err := donations.GetByTransactionID(ctx, req.TransactionID)
		switch {
		case err == nil:
			res := &Result{Payment: p, Donation: d, Replayed: true}
			res.Fund, err = creditedFund(ctx, funds, d)
			return res, err
		case errors.Is(err, domain.ErrNotFound):
			logger.Warn("payment recorded without donation; completing settlement")
		default:
			return nil, err
		}
	}

	f, err := funds.IncrementActive(ctx, p.Amount)
	if err != nil {
		return nil, err
	}

	purpose := req.Purpose
	if strings.TrimSpace(purpose) == "" {
		purpose = s.cfg.DefaultPurpose
	}
	d, err := donation.New(p.TransactionID, p.Amount, donation.Options{
		Donor:         donation.Donor{Name: req.DonorName, Email: req.Email, Phone: req.Phone},
		Purpose:       purpose,
		PaymentMethod: s.cfg.PaymentMethod,
		FundID:        &f.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := donations.Create(ctx, d); err != nil {
		return nil, err
	}
	return &Result{Payment: p, Donation: d, Fund: f}, nil
}

// RecordOrFetchPayment inserts a completed payment for transactionID. When the
// identifier already exists, the stored payment is returned with wasNew false.
func RecordOrFetchPayment(
	ctx context.Context,
	repo paymentrepo.Repository,
	transactionID string,
	amount float64,
	userID *uuid.UUID,
) (p *payment.Payment, wasNew bool, err error) {
	p, err = payment.New(transactionID, amount, userID)
	if err != nil {
		return nil, false, err
	}
	err = repo.Create(ctx, p)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, false, err
	}
	existing, err := repo.GetByTransactionID(ctx, p.TransactionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// fetchSettled loads the committed records of an already settled transaction.
func (s *Service) fetchSettled(ctx context.Context, transactionID string) (*Result, error) {
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	donations, err := s.uow.DonationRepository()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	funds, err := s.uow.FundRepository()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}

	p, err := payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load payment: %w", domain.ErrInternal, err)
	}
	d, err := donations.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load donation: %w", domain.ErrInternal, err)
	}
	f, err := creditedFund(ctx, funds, d)
	if err != nil {
		return nil, fmt.Errorf("%w: load fund: %w", domain.ErrInternal, err)
	}
	return &Result{Payment: p, Donation: d, Fund: f, Replayed: true}, nil
}

type fundGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error)
}

// creditedFund returns the current view of the fund d was credited to.
func creditedFund(ctx context.Context, funds fundGetter, d *donation.Donation) (*fund.Fund, error) {
	if d.FundID == nil {
		return nil, nil
	}
	f, err := funds.Get(ctx, *d.FundID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

func (s *Service) emit(ctx context.Context, logger *slog.Logger, res *Result) {
	if s.bus == nil {
		return
	}
	now := time.Now().UTC()
	settled := &events.DonationSettled{
		ID:            uuid.New(),
		TransactionID: res.Payment.TransactionID,
		DonationID:    res.Donation.ID,
		PaymentID:     res.Payment.ID,
		UserID:        res.Payment.UserID,
		Amount:        res.Donation.Amount,
		Purpose:       res.Donation.Purpose,
		PaymentMethod: res.Donation.PaymentMethod,
		DonorName:     res.Donation.Donor.Name,
		DonorEmail:    res.Donation.Donor.Email,
		FundID:        res.Fund.ID,
		FundName:      res.Fund.Name,
		FundStatus:    string(res.Fund.Status),
		CurrentAmount: res.Fund.CurrentAmount,
		TargetAmount:  res.Fund.TargetAmount,
		SettledAt:     now,
	}
	if err := s.bus.Emit(ctx, settled); err != nil {
		logger.Error("failed to emit event", "type", settled.Type(), "error", err)
	}

	if res.Fund.Status != fund.StatusCompleted {
		return
	}
	completed := &events.FundCompleted{
		ID:            uuid.New(),
		FundID:        res.Fund.ID,
		FundName:      res.Fund.Name,
		CurrentAmount: res.Fund.CurrentAmount,
		TargetAmount:  res.Fund.TargetAmount,
		TransactionID: res.Payment.TransactionID,
		CompletedAt:   now,
	}
	if err := s.bus.Emit(ctx, completed); err != nil {
		logger.Error("failed to emit event", "type", completed.Type(), "error", err)
	}
}

func validate(req Request) error {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return err
	}
	if req.TransactionID == "" {
		return fmt.Errorf("%w: transactionId is required", domain.ErrInvalidInput)
	}
	if len(req.TransactionID) > maxTransactionIDLength {
		return fmt.Errorf("%w: transactionId exceeds %d characters", domain.ErrInvalidInput, maxTransactionIDLength)
	}
	return nil
}
