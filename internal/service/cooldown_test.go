package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCooldownGateBlocksWithinInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	gate := newCooldownGate(10*time.Second, clock.Now)

	assert.True(t, gate.Allow(1))
	assert.False(t, gate.Allow(1))

	clock.Advance(9 * time.Second)
	assert.False(t, gate.Allow(1))

	clock.Advance(time.Second)
	assert.True(t, gate.Allow(1))
}

func TestCooldownGateRejectionDoesNotExtend(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	gate := newCooldownGate(10*time.Second, clock.Now)

	assert.True(t, gate.Allow(1))
	clock.Advance(9 * time.Second)
	// A denied attempt must not push the window forward.
	assert.False(t, gate.Allow(1))
	clock.Advance(time.Second)
	assert.True(t, gate.Allow(1))
}

func TestCooldownGatePerUser(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	gate := newCooldownGate(10*time.Second, clock.Now)

	assert.True(t, gate.Allow(1))
	assert.True(t, gate.Allow(2))
	assert.False(t, gate.Allow(1))
	assert.False(t, gate.Allow(2))
}

func TestCooldownGateDisabled(t *testing.T) {
	gate := newCooldownGate(0, nil)
	for i := 0; i < 5; i++ {
		assert.True(t, gate.Allow(1))
	}
}
