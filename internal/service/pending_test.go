package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingBookTakeConsumes(t *testing.T) {
	book := newPendingBook()
	att := pendingAttempt{UserID: 1, OfferID: "o1", IssuedAt: time.Unix(0, 0)}
	book.Put("p1", att)

	got, ok := book.Peek("p1")
	require.True(t, ok)
	assert.Equal(t, att, got)
	assert.Equal(t, 1, book.Len(), "peek must not consume")

	got, ok = book.Take("p1")
	require.True(t, ok)
	assert.Equal(t, att, got)
	assert.Equal(t, 0, book.Len())

	_, ok = book.Take("p1")
	assert.False(t, ok)
}

func TestPendingBookNewAttemptSupersedes(t *testing.T) {
	book := newPendingBook()
	book.Put("p1", pendingAttempt{UserID: 1, OfferID: "o1"})
	book.Put("p2", pendingAttempt{UserID: 1, OfferID: "o2"})

	_, ok := book.Peek("p1")
	assert.False(t, ok, "superseded payload must be gone")

	att, ok := book.Take("p2")
	require.True(t, ok)
	assert.Equal(t, "o2", att.OfferID)
	assert.Equal(t, 0, book.Len())
}

func TestPendingBookIndependentUsers(t *testing.T) {
	book := newPendingBook()
	book.Put("p1", pendingAttempt{UserID: 1, OfferID: "o1"})
	book.Put("p2", pendingAttempt{UserID: 2, OfferID: "o1"})

	assert.Equal(t, 2, book.Len())
	_, ok := book.Take("p1")
	assert.True(t, ok)
	_, ok = book.Peek("p2")
	assert.True(t, ok)
}
