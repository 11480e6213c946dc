package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/state"
	"github.com/m3rciful/offerbot/internal/dialog"
)

// Temp-data keys for the in-flight offer draft.
const (
	draftTitleKey       = "offer_draft_title"
	draftDescriptionKey = "offer_draft_description"
)

func (b *Bot) handleAddOffer(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	userID := c.Sender().ID
	b.states.Clear(userID)
	b.states.SetState(userID, state.State(dialog.StepTitle))
	return tghelpers.SendText(c, "📝 Send the offer title.\n\n/back — previous step, /cancel — discard.")
}

// handleDialogInput runs on free text while an authoring dialogue is active.
func (b *Bot) handleDialogInput(c tele.Context) error {
	return b.advanceDialog(c, dialog.SignalText, c.Text())
}

func (b *Bot) handleBack(c tele.Context) error {
	if !dialog.Active(dialog.Step(b.states.GetState(c.Sender().ID))) {
		return tghelpers.SendText(c, "Nothing to go back from.")
	}
	return b.advanceDialog(c, dialog.SignalBack, "")
}

func (b *Bot) handleCancel(c tele.Context) error {
	if !dialog.Active(dialog.Step(b.states.GetState(c.Sender().ID))) {
		return tghelpers.SendText(c, "Nothing to cancel.")
	}
	return b.advanceDialog(c, dialog.SignalCancel, "")
}

func (b *Bot) advanceDialog(c tele.Context, sig dialog.Signal, text string) error {
	userID := c.Sender().ID
	step := dialog.Step(b.states.GetState(userID))

	draft := b.loadDraft(userID)
	next, effect := dialog.Advance(step, sig, text, &draft)

	switch effect {
	case dialog.EffectCreate:
		ctx := tghelpers.BuildContext(c)
		offer, err := b.catalog.CreateOffer(ctx, draft.Title, draft.Description, draft.Price)
		b.states.Clear(userID)
		if err != nil {
			_ = tghelpers.SendText(c, "⚠️ Could not save the offer, dialogue reset.")
			return err
		}
		return tghelpers.SendText(c, fmt.Sprintf("✅ Offer %q created for %d %s.",
			offer.Title, offer.Price/100, b.cfg.Payments.Currency))

	case dialog.EffectCancel:
		b.states.Clear(userID)
		return tghelpers.SendText(c, "🚫 Offer creation cancelled.")

	default:
		b.storeDraft(userID, draft)
		b.states.SetState(userID, state.State(next))
		return tghelpers.SendText(c, dialogPrompt(next, effect))
	}
}

func (b *Bot) loadDraft(userID int64) dialog.Draft {
	var d dialog.Draft
	if v, ok := b.states.GetTemp(userID, draftTitleKey); ok {
		d.Title, _ = v.(string)
	}
	if v, ok := b.states.GetTemp(userID, draftDescriptionKey); ok {
		d.Description, _ = v.(string)
	}
	return d
}

func (b *Bot) storeDraft(userID int64, d dialog.Draft) {
	b.states.SetTemp(userID, draftTitleKey, d.Title)
	b.states.SetTemp(userID, draftDescriptionKey, d.Description)
}

func dialogPrompt(step dialog.Step, effect dialog.Effect) string {
	prefix := ""
	if effect == dialog.EffectReprompt {
		prefix = "⚠️ That does not look right.\n\n"
	}
	switch step {
	case dialog.StepTitle:
		return prefix + "📝 Send the offer title."
	case dialog.StepDescription:
		return prefix + "📄 Send the description shown to buyers after payment."
	case dialog.StepPrice:
		return prefix + "💰 Send the price in minor currency units (e.g. 70000 for 700.00)."
	default:
		return prefix + "Send the next value."
	}
}

func (b *Bot) registerDialogStates() {
	for _, st := range []dialog.Step{dialog.StepTitle, dialog.StepDescription, dialog.StepPrice} {
		state.RegisterHandler(state.State(st), b.handleDialogInput)
	}
}
