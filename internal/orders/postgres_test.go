package orders

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func orderRows(o Order) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company", "otp", "tracking_id", "status", "approval_token", "created_at", "updated_at",
	}).AddRow(o.ID, o.Company, o.OTP, o.TrackingID, o.Status, o.ApprovalToken, o.CreatedAt, o.UpdatedAt)
}

func TestPostgresCreate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO delivery_orders").
		WithArgs(sqlmock.AnyArg(), "zomato", "4821", "ZMT-1", string(StatusPending), "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	order := &Order{Company: "Zomato", OTP: "4821", TrackingID: "ZMT-1"}
	require.NoError(t, store.Create(context.Background(), order))
	assert.NotEmpty(t, order.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByCompany(t *testing.T) {
	store, mock := newMockStore(t)

	want := Order{
		ID: "ord-1", Company: "zomato", OTP: "4821", Status: StatusApproved,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	mock.ExpectQuery("FROM delivery_orders").
		WithArgs("zomato", string(StatusPending), string(StatusApproved)).
		WillReturnRows(orderRows(want))

	got, err := store.FindByCompany(context.Background(), "Zomato", StatusPending, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "4821", got.OTP)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByTokenNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("WHERE approval_token").
		WithArgs("tok-unknown").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company", "otp", "tracking_id", "status", "approval_token", "created_at", "updated_at",
		}))

	_, err := store.FindByToken(context.Background(), "tok-unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE delivery_orders SET status").
		WithArgs(string(StatusApproved), sqlmock.AnyArg(), "ord-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetStatus(context.Background(), "ord-1", StatusApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStatusUnknownOrder(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE delivery_orders SET status").
		WithArgs(string(StatusDenied), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SetStatus(context.Background(), "missing", StatusDenied)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresList(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "company", "otp", "tracking_id", "status", "approval_token", "created_at", "updated_at",
	}).
		AddRow("ord-2", "swiggy", "", "", string(StatusPending), "", time.Now(), time.Now()).
		AddRow("ord-1", "zomato", "4821", "", string(StatusCompleted), "", time.Now().Add(-time.Hour), time.Now())

	mock.ExpectQuery("ORDER BY created_at DESC").WillReturnRows(rows)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "swiggy", list[0].Company)
	require.NoError(t, mock.ExpectationsWereMet())
}
