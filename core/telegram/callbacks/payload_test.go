package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// cbContext stubs just the callback accessor; everything else is unused.
type cbContext struct {
	tele.Context
	cb *tele.Callback
}

func (c cbContext) Callback() *tele.Callback { return c.cb }

func ctxWithData(data string) tele.Context {
	return cbContext{cb: &tele.Callback{Data: data}}
}

func TestCallbackPayload(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"unique with payload", "\\frevoke_demo|123456789", "123456789"},
		{"unique only", "\\fback_to_main", ""},
		{"payload with separator", "\\fpair|12|34", "12|34"},
	}
	for _, tc := range cases {
		got := CallbackPayload(ctxWithData(tc.data))
		if got != tc.want {
			t.Errorf("%s: payload = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPayloadInt64(t *testing.T) {
	got, err := PayloadInt64(ctxWithData("\\frevoke_demo|123456789"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 123456789 {
		t.Fatalf("value = %d, want 123456789", got)
	}

	if _, err := PayloadInt64(ctxWithData("\\frevoke_demo|not-a-number")); err == nil {
		t.Fatal("expected error for non-numeric payload")
	}
	if _, err := PayloadInt64(ctxWithData("\\frevoke_demo")); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestPayloadTwoInt64(t *testing.T) {
	a, b, err := PayloadTwoInt64(ctxWithData("\\fpair|12|34"), "|")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a != 12 || b != 34 {
		t.Fatalf("values = %d,%d, want 12,34", a, b)
	}

	if _, _, err := PayloadTwoInt64(ctxWithData("\\fpair|12"), "|"); err == nil {
		t.Fatal("expected error for single part")
	}
}

func TestPayloadParts(t *testing.T) {
	parts, err := PayloadParts(ctxWithData("\\flist|a|b|c"), "|")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parts) != 3 || parts[0] != "a" || parts[2] != "c" {
		t.Fatalf("parts = %v, want [a b c]", parts)
	}

	if _, err := PayloadParts(ctxWithData("\\fempty"), "|"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
