// Package donation holds the donation record written alongside a payment.
package donation

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/google/uuid"
)

const (
	// AnonymousDonor is recorded when no donor name is supplied.
	AnonymousDonor = "Anonymous"
	// DefaultPurpose is recorded when no purpose is supplied.
	DefaultPurpose = "General"
	// DefaultPaymentMethod is the payment method tag of this deployment.
	DefaultPaymentMethod = "upi"
)

// Donor carries optional donor contact details.
type Donor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Donation is a logically completed donation. It is correlated with its
// payment by TransactionID only.
type Donation struct {
	ID            uuid.UUID      `json:"id"`
	TransactionID string         `json:"transactionId"`
	Amount        float64        `json:"amount"`
	Status        payment.Status `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	Purpose       string         `json:"purpose"`
	Donor         Donor          `json:"donor"`
	FundID        *uuid.UUID     `json:"fundId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Options are the optional fields of a donation.
type Options struct {
	Donor         Donor
	Purpose       string
	PaymentMethod string
	FundID        *uuid.UUID
}

// New builds a completed donation, filling anonymous defaults for any
// missing donor details.
func New(transactionID string, amount float64, opts Options) (*Donation, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transactionId is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	donor := Donor{
		Name:  strings.TrimSpace(opts.Donor.Name),
		Email: strings.TrimSpace(opts.Donor.Email),
		Phone: strings.TrimSpace(opts.Donor.Phone),
	}
	if donor.Name == "" {
		donor.Name = AnonymousDonor
	}
	purpose := strings.TrimSpace(opts.Purpose)
	if purpose == "" {
		purpose = DefaultPurpose
	}
	method := opts.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	return &Donation{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Amount:        amount,
		Status:        payment.StatusCompleted,
		PaymentMethod: method,
		Purpose:       purpose,
		Donor:         donor,
		FundID:        opts.FundID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// IsAnonymous reports whether the donor left no name.
func (d *Donation) IsAnonymous() bool {
	return d.Donor.Name == AnonymousDonor
}
