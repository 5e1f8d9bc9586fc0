package remuneration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"projexa-service/internal/domain/auth"
	domain "projexa-service/internal/domain/remuneration"
	xerrors "projexa-service/internal/pkg/errors"
	"projexa-service/internal/repository/postgres"
	notifsvc "projexa-service/internal/service/notification"
	ws "projexa-service/internal/websocket"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var frozen = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeRepo applies the same conditional-update contract as the real
// repository: settlement only succeeds while the row is still pending.
type fakeRepo struct {
	rows   map[int64]*domain.Remuneration
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]*domain.Remuneration)}
}

func (f *fakeRepo) Create(_ context.Context, m *domain.Remuneration) error {
	f.nextID++
	m.ID = f.nextID
	f.rows[m.ID] = m
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*domain.Remuneration, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filters *domain.RemunerationListFilters) ([]domain.Remuneration, int64, error) {
	items := make([]domain.Remuneration, 0, len(f.rows))
	for _, m := range f.rows {
		if filters.UserID != nil && m.UserID != *filters.UserID {
			continue
		}
		items = append(items, *m)
	}
	return items, int64(len(items)), nil
}

func (f *fakeRepo) MarkPaid(_ context.Context, id int64, approvedBy int64, paymentDate time.Time, paymentRef, paymentMethod string) (bool, error) {
	m, ok := f.rows[id]
	if !ok || m.Status != domain.StatusPending {
		return false, nil
	}
	m.Status = domain.StatusPaid
	m.PaymentDate = sql.NullTime{Time: paymentDate, Valid: true}
	m.PaymentRef = sql.NullString{String: paymentRef, Valid: true}
	m.PaymentMethod = sql.NullString{String: paymentMethod, Valid: true}
	m.ApprovedBy = sql.NullInt64{Int64: approvedBy, Valid: true}
	return true, nil
}

func (f *fakeRepo) MarkCancelled(_ context.Context, id int64, approvedBy int64) (bool, error) {
	m, ok := f.rows[id]
	if !ok || m.Status != domain.StatusPending {
		return false, nil
	}
	m.Status = domain.StatusCancelled
	m.ApprovedBy = sql.NullInt64{Int64: approvedBy, Valid: true}
	return true, nil
}

// newNotifier builds a notification service backed by a mock pool and a hub
// with no connected clients. expectCreates preloads one insert expectation
// per notification the test should produce.
func newNotifier(t *testing.T, expectCreates int) *notifsvc.NotificationService {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	for i := 0; i < expectCreates; i++ {
		mock.ExpectQuery("INSERT INTO notifications").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(i+1), frozen))
	}

	repo := postgres.NewNotificationRepository(mock)
	hub := ws.NewHub(nil, nil)
	return notifsvc.NewNotificationService(repo, nil, nil, hub, zap.NewNop())
}

func newService(t *testing.T, repo Repository, expectNotifications int) *RemunerationService {
	t.Helper()
	svc := NewRemunerationService(repo, nil, newNotifier(t, expectNotifications), zap.NewNop())
	svc.SetClock(func() time.Time { return frozen })
	return svc
}

func seedPending(repo *fakeRepo) *domain.Remuneration {
	m := &domain.Remuneration{
		TaskID:   10,
		UserID:   42,
		Type:     domain.TypeTaskCompletion,
		Status:   domain.StatusPending,
		Amount:   5000,
		Currency: "XOF",
	}
	repo.nextID++
	m.ID = repo.nextID
	repo.rows[m.ID] = m
	return m
}

func TestPay(t *testing.T) {
	repo := newFakeRepo()
	m := seedPending(repo)
	svc := newService(t, repo, 1)

	paid, err := svc.Pay(context.Background(), m.ID, 7, auth.RoleManager, &domain.PayRequest{
		PaymentRef:    "PAY-001",
		PaymentMethod: "mobile_money",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, paid.Status)
	assert.Equal(t, frozen, paid.PaymentDate.Time)
	assert.Equal(t, "PAY-001", paid.PaymentRef.String)
	assert.Equal(t, int64(7), paid.ApprovedBy.Int64)
}

func TestPay_SecondSettlementLoses(t *testing.T) {
	repo := newFakeRepo()
	m := seedPending(repo)
	svc := newService(t, repo, 1)

	_, err := svc.Pay(context.Background(), m.ID, 7, auth.RoleAdmin, &domain.PayRequest{PaymentRef: "PAY-001"})
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), m.ID, 8, auth.RoleAdmin, &domain.PayRequest{PaymentRef: "PAY-002"})
	assert.ErrorIs(t, err, xerrors.ErrAlreadySettled)

	// The winner's payment reference is untouched by the losing attempt.
	assert.Equal(t, "PAY-001", repo.rows[m.ID].PaymentRef.String)
}

func TestPay_MemberForbidden(t *testing.T) {
	repo := newFakeRepo()
	m := seedPending(repo)
	svc := newService(t, repo, 0)

	_, err := svc.Pay(context.Background(), m.ID, m.UserID, auth.RoleMember, &domain.PayRequest{})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
	assert.Equal(t, domain.StatusPending, repo.rows[m.ID].Status)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo()
	m := seedPending(repo)
	svc := newService(t, repo, 0)

	cancelled, err := svc.Cancel(context.Background(), m.ID, 7, auth.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// Paying or re-cancelling a cancelled remuneration is refused.
	_, err = svc.Pay(context.Background(), m.ID, 7, auth.RoleManager, &domain.PayRequest{})
	assert.ErrorIs(t, err, xerrors.ErrAlreadySettled)
	_, err = svc.Cancel(context.Background(), m.ID, 7, auth.RoleManager)
	assert.ErrorIs(t, err, xerrors.ErrAlreadySettled)
}

func TestGet_OwnerAndRoles(t *testing.T) {
	repo := newFakeRepo()
	m := seedPending(repo)
	svc := newService(t, repo, 0)
	ctx := context.Background()

	_, err := svc.Get(ctx, m.ID, m.UserID, auth.RoleMember)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, m.ID, 999, auth.RoleManager)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, m.ID, 999, auth.RoleMember)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestList_MembersScopedToSelf(t *testing.T) {
	repo := newFakeRepo()
	mine := seedPending(repo)
	other := seedPending(repo)
	other.UserID = 99
	svc := newService(t, repo, 0)

	items, total, err := svc.List(context.Background(), mine.UserID, auth.RoleMember, &domain.RemunerationListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, mine.UserID, items[0].UserID)
}
