package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "nil error returns nil",
			input:    nil,
			expected: nil,
		},
		{
			name:     "duplicate key error maps to ErrAlreadyExists",
			input:    gorm.ErrDuplicatedKey,
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "record not found error maps to ErrNotFound",
			input:    gorm.ErrRecordNotFound,
			expected: domain.ErrNotFound,
		},
		{
			name:     "postgres unique violation maps to ErrAlreadyExists",
			input:    fmt.Errorf("insert payment: %w", &pgconn.PgError{Code: UniqueViolation}),
			expected: domain.ErrAlreadyExists,
		},
		{
			name:     "postgres check violation maps to ErrValidation",
			input:    &pgconn.PgError{Code: CheckViolation},
			expected: domain.ErrValidation,
		},
		{
			name:     "postgres foreign key violation maps to ErrValidation",
			input:    fmt.Errorf("insert payment: %w", &pgconn.PgError{Code: ForeignKeyViolation}),
			expected: domain.ErrValidation,
		},
		{
			name:     "wrapped record not found error maps correctly",
			input:    errors.Join(errors.New("outer error"), gorm.ErrRecordNotFound),
			expected: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			if tt.expected == nil {
				require.NoError(t, result)
				return
			}
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_UnknownErrorPassesThrough(t *testing.T) {
	t.Parallel()
	original := errors.New("connection reset")

	result := MapGormErrorToDomain(original)

	assert.Same(t, original, result)
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	err := WrapError(func() error { return gorm.ErrRecordNotFound })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, WrapError(func() error { return nil }))
}
