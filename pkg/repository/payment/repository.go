package payment

import (
	"context"

	"github.com/amirasaad/donation/pkg/domain/payment"
)

// Repository defines data access for payment records.
type Repository interface {
	// Create inserts a payment. It returns domain.ErrAlreadyExists when the
	// transaction identifier is already taken.
	Create(ctx context.Context, p *payment.Payment) error

	// GetByTransactionID returns domain.ErrNotFound when no payment matches.
	GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)

	// List returns payments newest first.
	List(ctx context.Context, page, pageSize int) ([]*payment.Payment, error)
}
