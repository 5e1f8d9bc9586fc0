package postgres

import (
	"context"
	"testing"
	"time"

	xerrors "projexa-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRemunerationRepo(t *testing.T) (*RemunerationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return NewRemunerationRepository(mock), mock
}

func TestRemunerationMarkPaid(t *testing.T) {
	repo, mock := newMockRemunerationRepo(t)
	when := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE remunerations").
		WithArgs(when, "PAY-001", "mobile_money", int64(7), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	paid, err := repo.MarkPaid(context.Background(), 42, 7, when, "PAY-001", "mobile_money")
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemunerationMarkPaid_AlreadySettled(t *testing.T) {
	repo, mock := newMockRemunerationRepo(t)
	when := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// The conditional WHERE matched no pending row.
	mock.ExpectExec("UPDATE remunerations").
		WithArgs(when, "PAY-002", "bank", int64(7), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	paid, err := repo.MarkPaid(context.Background(), 42, 7, when, "PAY-002", "bank")
	require.NoError(t, err)
	assert.False(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemunerationMarkCancelled(t *testing.T) {
	repo, mock := newMockRemunerationRepo(t)

	mock.ExpectExec("UPDATE remunerations").
		WithArgs(int64(7), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	cancelled, err := repo.MarkCancelled(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemunerationFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRemunerationRepo(t)

	mock.ExpectQuery("FROM remunerations WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
