// Package donation serves read-side queries over settled donations.
package donation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/repository"
)

// Detail pairs a donation with its payment record.
type Detail struct {
	Donation *donation.Donation `json:"donation"`
	Payment  *payment.Payment   `json:"payment"`
}

// Page is one page of a donation listing.
type Page struct {
	Items    []*donation.Donation `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

// Service answers donation and payment queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a donation query Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "donation")}
}

// Get returns the donation and payment recorded for transactionID.
func (s *Service) Get(ctx context.Context, transactionID string) (*Detail, error) {
	transactionID = strings.TrimSpace(transactionID)
	donations, err := s.uow.DonationRepository()
	if err != nil {
		return nil, err
	}
	d, err := donations.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	p, err := s.Payment(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &Detail{Donation: d, Payment: p}, nil
}

// Payment returns the payment recorded for transactionID.
func (s *Service) Payment(ctx context.Context, transactionID string) (*payment.Payment, error) {
	payments, err := s.uow.PaymentRepository()
	if err != nil {
		return nil, err
	}
	return payments.GetByTransactionID(ctx, strings.TrimSpace(transactionID))
}

// List returns a page of donations newest first.
func (s *Service) List(ctx context.Context, filter dto.DonationFilter) (*Page, error) {
	filter = filter.Normalize()
	donations, err := s.uow.DonationRepository()
	if err != nil {
		return nil, err
	}
	items, total, err := donations.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list donations", "error", err)
		return nil, err
	}
	if items == nil {
		items = []*donation.Donation{}
	}
	return &Page{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
