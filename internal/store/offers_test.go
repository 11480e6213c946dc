package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOffersDeleteTouchesOnlyOffers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOffers(db)

	// A single DELETE against offers; any statement against orders would
	// fail the expectation check below.
	mock.ExpectExec(`DELETE FROM offers WHERE id = \$1`).
		WithArgs("offer-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "offer-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOffersDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOffers(db)

	mock.ExpectExec(`DELETE FROM offers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
