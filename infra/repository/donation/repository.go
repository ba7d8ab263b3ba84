package donation

import (
	"context"
	"errors"

	"github.com/amirasaad/donation/infra/repository/dberr"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/amirasaad/donation/pkg/dto"
	repo "github.com/amirasaad/donation/pkg/repository/donation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a donation repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *donation.Donation) error {
	m := mapDomainToModel(d)
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *repository) GetByTransactionID(
	ctx context.Context,
	transactionID string,
) (*donation.Donation, error) {
	var m Donation
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
	filter dto.DonationFilter,
) ([]*donation.Donation, int64, error) {
	filter = filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.FundID != nil {
			db = db.Where("fund_id = ?", *filter.FundID)
		}
		if filter.Purpose != "" {
			db = db.Where("LOWER(purpose) = LOWER(?)", filter.Purpose)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&Donation{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, dberr.MapGormErrorToDomain(err)
	}

	var rows []Donation
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, dberr.MapGormErrorToDomain(err)
	}
	result := make([]*donation.Donation, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDomain(&rows[i]))
	}
	return result, total, nil
}

type fundTotal struct {
	FundID uuid.UUID
	Total  float64
}

func (r *repository) SumByFund(ctx context.Context) (map[uuid.UUID]float64, error) {
	var rows []fundTotal
	err := r.db.WithContext(ctx).
		Model(&Donation{}).
		Select("fund_id, SUM(amount) AS total").
		Where("status = ? AND fund_id IS NOT NULL", string(payment.StatusCompleted)).
		Group("fund_id").
		Scan(&rows).Error
	if err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	totals := make(map[uuid.UUID]float64, len(rows))
	for _, row := range rows {
		totals[row.FundID] = row.Total
	}
	return totals, nil
}

func mapDomainToModel(d *donation.Donation) Donation {
	return Donation{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		Amount:        d.Amount,
		Status:        string(d.Status),
		PaymentMethod: d.PaymentMethod,
		Purpose:       d.Purpose,
		DonorName:     d.Donor.Name,
		DonorEmail:    d.Donor.Email,
		DonorPhone:    d.Donor.Phone,
		FundID:        d.FundID,
		CreatedAt:     d.CreatedAt,
	}
}

func mapModelToDomain(m *Donation) *donation.Donation {
	return &donation.Donation{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		Status:        payment.Status(m.Status),
		PaymentMethod: m.PaymentMethod,
		Purpose:       m.Purpose,
		Donor: donation.Donor{
			Name:  m.DonorName,
			Email: m.DonorEmail,
			Phone: m.DonorPhone,
		},
		FundID:    m.FundID,
		CreatedAt: m.CreatedAt,
	}
}

var _ repo.Repository = (*repository)(nil)
