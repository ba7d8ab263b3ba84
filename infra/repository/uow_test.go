package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/donation/pkg/repository"
	repopayment "github.com/amirasaad/donation/pkg/repository/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoW_DoAndGetRepository(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repoAny, err := txUow.GetRepository((*repopayment.Repository)(nil))
		require.NoError(err)
		_, ok := repoAny.(repopayment.Repository)
		assert.True(ok)

		donations, err := txUow.DonationRepository()
		require.NoError(err)
		assert.NotNil(donations)

		funds, err := txUow.FundRepository()
		require.NoError(err)
		assert.NotNil(funds)

		users, err := txUow.UserRepository()
		require.NoError(err)
		assert.NotNil(users)
		return nil
	})
	assert.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	uow, mock := newMockUoW(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_TypeSafeMethodsOutsideTransaction(t *testing.T) {
	uow, _ := newMockUoW(t)

	payments, err := uow.PaymentRepository()
	require.NoError(t, err)
	assert.NotNil(t, payments)

	funds, err := uow.FundRepository()
	require.NoError(t, err)
	assert.NotNil(t, funds)
}

func TestUoW_GetRepositoryUnsupported(t *testing.T) {
	uow, _ := newMockUoW(t)

	_, err := uow.GetRepository((*error)(nil))
	assert.Error(t, err)

	_, err = uow.GetRepository(nil)
	assert.Error(t, err)
}
