package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var orderColumns = []string{
	"id", "user_id", "offer_id", "status", "payload", "is_demo", "paid_amount", "created_at",
}

func TestOrdersListByUserScopedToRequester(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(orderColumns).
		AddRow("o2", int64(10), "deleted-offer", StatusPaid, "charge-2", false, int64(70000), now).
		AddRow("o1", int64(10), "offer-1", StatusPaid, "charge-1", true, int64(0), now.Add(-time.Hour))

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders\s+WHERE user_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs(int64(10), 50).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 10, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Orders referencing a deleted offer still read back intact.
	assert.Equal(t, "deleted-offer", got[0].OfferID)
	assert.True(t, got[1].IsDemo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersCreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), Order{
		ID: "o1", UserID: 10, Status: StatusPaid, Payload: "charge-1", CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersGetByPayloadNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE payload = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := repo.GetByPayload(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
