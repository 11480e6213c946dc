// Package dialog implements the offer-authoring conversation as a pure
// finite-state machine. Session storage and message sending stay at the
// transport edge; transitions here are side-effect free and exhaustively
// testable.
package dialog

import (
	"strconv"
	"strings"
)

// Step identifies the current position inside the authoring form. The
// values double as FSM session states for the transport-level state manager.
type Step string

const (
	// StepNone means no authoring dialogue is active.
	StepNone Step = ""
	// StepTitle waits for the offer title.
	StepTitle Step = "offer_title"
	// StepDescription waits for the hidden offer description.
	StepDescription Step = "offer_description"
	// StepPrice waits for the price in minor currency units.
	StepPrice Step = "offer_price"
	// StepDone marks a completed dialogue; all ephemeral state is released.
	StepDone Step = "offer_done"
)

// Signal classifies the admin's input.
type Signal int

const (
	// SignalText is a free-text message for the current step.
	SignalText Signal = iota
	// SignalBack moves one step backward; from Title it cancels.
	SignalBack
	// SignalCancel discards the draft from any step.
	SignalCancel
)

// Effect tells the caller what to do after a transition.
type Effect int

const (
	// EffectPromptTitle asks for the offer title.
	EffectPromptTitle Effect = iota
	// EffectPromptDescription asks for the description.
	EffectPromptDescription
	// EffectPromptPrice asks for the price.
	EffectPromptPrice
	// EffectReprompt repeats the current step's prompt after invalid input.
	EffectReprompt
	// EffectCreate means the draft is complete and must be persisted.
	EffectCreate
	// EffectCancel means the draft is discarded without persisting.
	EffectCancel
)

// Draft accumulates the not-yet-committed offer.
type Draft struct {
	Title       string
	Description string
	Price       int64
}

// Advance computes the next step and required effect for the given input.
// Text is trimmed before acceptance; empty text re-prompts. The price step
// accepts only a non-negative integer in minor units and stays put
// otherwise.
func Advance(step Step, sig Signal, text string, d *Draft) (Step, Effect) {
	switch sig {
	case SignalCancel:
		return StepNone, EffectCancel
	case SignalBack:
		switch step {
		case StepPrice:
			return StepDescription, EffectPromptDescription
		case StepDescription:
			return StepTitle, EffectPromptTitle
		default:
			// There is no step before Title.
			return StepNone, EffectCancel
		}
	}

	text = strings.TrimSpace(text)
	switch step {
	case StepTitle:
		if text == "" {
			return StepTitle, EffectReprompt
		}
		d.Title = text
		return StepDescription, EffectPromptDescription
	case StepDescription:
		if text == "" {
			return StepDescription, EffectReprompt
		}
		d.Description = text
		return StepPrice, EffectPromptPrice
	case StepPrice:
		price, err := strconv.ParseInt(text, 10, 64)
		if err != nil || price < 0 {
			return StepPrice, EffectReprompt
		}
		d.Price = price
		return StepDone, EffectCreate
	default:
		return StepNone, EffectCancel
	}
}

// Active reports whether the step belongs to an in-flight dialogue.
func Active(step Step) bool {
	switch step {
	case StepTitle, StepDescription, StepPrice:
		return true
	}
	return false
}
