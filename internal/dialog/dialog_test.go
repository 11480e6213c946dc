package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceHappyPath(t *testing.T) {
	var d Draft

	step, effect := Advance(StepTitle, SignalText, "  Express 3 picks  ", &d)
	require.Equal(t, StepDescription, step)
	require.Equal(t, EffectPromptDescription, effect)
	assert.Equal(t, "Express 3 picks", d.Title)

	step, effect = Advance(step, SignalText, "Three handpicked tips", &d)
	require.Equal(t, StepPrice, step)
	require.Equal(t, EffectPromptPrice, effect)
	assert.Equal(t, "Three handpicked tips", d.Description)

	step, effect = Advance(step, SignalText, "70000", &d)
	require.Equal(t, StepDone, step)
	require.Equal(t, EffectCreate, effect)
	assert.Equal(t, int64(70000), d.Price)
}

func TestAdvanceRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		step Step
		text string
	}{
		{"empty title", StepTitle, "   "},
		{"empty description", StepDescription, ""},
		{"non-numeric price", StepPrice, "seventy"},
		{"negative price", StepPrice, "-5"},
		{"fractional price", StepPrice, "10.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Draft
			next, effect := Advance(tc.step, SignalText, tc.text, &d)
			assert.Equal(t, tc.step, next, "invalid input must not advance")
			assert.Equal(t, EffectReprompt, effect)
			assert.Zero(t, d, "draft must stay untouched")
		})
	}
}

func TestAdvanceBack(t *testing.T) {
	var d Draft

	step, effect := Advance(StepPrice, SignalBack, "", &d)
	assert.Equal(t, StepDescription, step)
	assert.Equal(t, EffectPromptDescription, effect)

	step, effect = Advance(StepDescription, SignalBack, "", &d)
	assert.Equal(t, StepTitle, step)
	assert.Equal(t, EffectPromptTitle, effect)

	step, effect = Advance(StepTitle, SignalBack, "", &d)
	assert.Equal(t, StepNone, step)
	assert.Equal(t, EffectCancel, effect)
}

func TestAdvanceCancelFromAnyStep(t *testing.T) {
	for _, st := range []Step{StepTitle, StepDescription, StepPrice} {
		var d Draft
		next, effect := Advance(st, SignalCancel, "ignored", &d)
		assert.Equal(t, StepNone, next)
		assert.Equal(t, EffectCancel, effect)
	}
}

func TestAdvanceBackPreservesCollectedFields(t *testing.T) {
	d := Draft{Title: "kept", Description: "also kept"}
	_, _ = Advance(StepPrice, SignalBack, "", &d)
	assert.Equal(t, "kept", d.Title)
	assert.Equal(t, "also kept", d.Description)
}

func TestActive(t *testing.T) {
	assert.False(t, Active(StepNone))
	assert.False(t, Active(StepDone))
	assert.True(t, Active(StepTitle))
	assert.True(t, Active(StepDescription))
	assert.True(t, Active(StepPrice))
}
