package fund

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/donation/infra/repository/dberr"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/fund"
	repo "github.com/amirasaad/donation/pkg/repository/fund"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New creates a fund repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *fund.Fund) error {
	m := mapDomainToModel(f)
	return dberr.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	var m Fund
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&m), nil
}

func (r *repository) GetActive(ctx context.Context) (*fund.Fund, error) {
	var m Fund
	err := r.db.WithContext(ctx).
		Where("status = ?", string(fund.StatusActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveFund
		}
		return nil, dberr.MapGormErrorToDomain(err)
	}
	return mapModelToDomain(&m), nil
}

func (r *repository) List(ctx context.Context) ([]*fund.Fund, error) {
	var rows []Fund
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, dberr.MapGormErrorToDomain(err)
	}
	result := make([]*fund.Fund, 0, len(rows))
	for i := range rows {
		result = append(result, mapModelToDomain(&rows[i]))
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, f *fund.Fund) error {
	updates := map[string]any{
		"name":          f.Name,
		"description":   f.Description,
		"target_amount": f.TargetAmount,
		"start_date":    f.StartDate,
		"end_date":      f.EndDate,
		"updated_at":    time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).Model(&Fund{}).Where("id = ?", f.ID).Updates(updates)
	if res.Error != nil {
		return dberr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus guards the write with the status the caller read, so a fund
// completed by a concurrent settlement is never moved back.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to fund.Status) error {
	res := r.db.WithContext(ctx).
		Model(&Fund{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return dberr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: fund %s is no longer %s", domain.ErrConflict, id, from)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Fund{}, "id = ?", id)
	if res.Error != nil {
		return dberr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementActive applies the donation in one UPDATE statement. Postgres
// evaluates every SET expression against the pre-update row and holds the row
// lock until commit, so concurrent increments serialize without lost updates.
// The amount is cast to the column type so the completion test compares the
// value that gets stored.
func (r *repository) IncrementActive(ctx context.Context, amount float64) (*fund.Fund, error) {
	var rows []Fund
	res := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("status = ?", string(fund.StatusActive)).
		Updates(map[string]any{
			"current_amount": gorm.Expr("current_amount + CAST(? AS NUMERIC(14, 2))", amount),
			"status": gorm.Expr(
				"CASE WHEN current_amount + CAST(? AS NUMERIC(14, 2)) >= target_amount THEN ? ELSE status END",
				amount, string(fund.StatusCompleted),
			),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, dberr.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, domain.ErrNoActiveFund
	}
	return mapModelToDomain(&rows[0]), nil
}

func mapDomainToModel(f *fund.Fund) Fund {
	return Fund{
		ID:            f.ID,
		Name:          f.Name,
		Description:   f.Description,
		TargetAmount:  f.TargetAmount,
		CurrentAmount: f.CurrentAmount,
		Status:        string(f.Status),
		StartDate:     f.StartDate,
		EndDate:       f.EndDate,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func mapModelToDomain(m *Fund) *fund.Fund {
	return &fund.Fund{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		Status:        fund.Status(m.Status),
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

var _ repo.Repository = (*repository)(nil)
