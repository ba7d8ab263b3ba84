package payment

import (
	"context"
	"errors"

	"github.com/amirasaad/donation/infra/repository/dberr"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/payment"
	repo "github.com/amirasaad/donation/pkg/repository/payment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New creates a payment repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create inserts p with ON CONFLICT DO NOTHING so that a duplicate
// transaction identifier does not abort the surrounding transaction.
func (r *repository) Create(ctx context.Context, p *payment.Payment) error {
	m := mapDomainToModel(p)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return dberr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *repository) GetByTransactionID(
	ctx context.Context,
	transactionID string,
) (*payment.Payment, error) {
	var m Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&m), nil
}

func (r *repository) List(
	ctx context.Context,
	page, pageSize int,
) ([]*payment.Payment, error) {
	if page < 1 {
		page = 1
	}
	var rows []Payment
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	result := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDomain(&rows[i]))
	}
	return result, nil
}

func mapDomainToModel(p *payment.Payment) Payment {
	return Payment{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt,
	}
}

func mapModelToDomain(m *Payment) *payment.Payment {
	return &payment.Payment{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		Status:        payment.Status(m.Status),
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}
}

var _ repo.Repository = (*repository)(nil)
