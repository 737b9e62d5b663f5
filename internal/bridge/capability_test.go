package bridge

import (
	"context"
	"errors"
	"testing"

	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
)

func TestNewCapabilitySet(t *testing.T) {
	handler := func(ctx context.Context, payload any) (any, error) { return nil, nil }

	set, err := NewCapabilitySet(
		Capability{Name: "A", Handler: handler},
		Capability{Name: "B", Handler: handler},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 capabilities, got %d", len(set))
	}

	if _, err := NewCapabilitySet(Capability{Handler: handler}); !errors.Is(err, errspkg.ErrCapabilityRequired) {
		t.Fatalf("expected capability name error, got %v", err)
	}
	if _, err := NewCapabilitySet(Capability{Name: "A"}); !errors.Is(err, errspkg.ErrHandlerRequired) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestShowToastPayloadValidation(t *testing.T) {
	c := ShowToastCapability(NewLoggingToaster(nil))

	cases := []struct {
		name    string
		payload any
		wantErr bool
	}{
		{"valid", map[string]any{"message": "hi"}, false},
		{"valid with style", map[string]any{"message": "hi", "style": "success"}, false},
		{"not an object", "hi", true},
		{"missing message", map[string]any{}, true},
		{"empty message", map[string]any{"message": ""}, true},
		{"non-string message", map[string]any{"message": 42}, true},
		{"non-string style", map[string]any{"message": "hi", "style": 1}, true},
	}
	for _, tc := range cases {
		err := c.ValidatePayload(tc.payload)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: got err=%v, wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestTriggerHapticPayloadValidation(t *testing.T) {
	c := TriggerHapticCapability(NewLoggingHaptics(nil))

	if err := c.ValidatePayload(map[string]any{}); err != nil {
		t.Fatalf("type field is optional: %v", err)
	}
	if err := c.ValidatePayload(map[string]any{"type": "light"}); err != nil {
		t.Fatalf("string type should pass: %v", err)
	}
	if err := c.ValidatePayload(map[string]any{"type": 7}); err == nil {
		t.Fatal("non-string type must fail")
	}
	if err := c.ValidatePayload([]string{"light"}); err == nil {
		t.Fatal("non-object payload must fail")
	}
}

func TestToastHandlerUsesInjectedToaster(t *testing.T) {
	toaster := &stubToaster{}
	c := ShowToastCapability(toaster)

	if _, err := c.Handler(context.Background(), map[string]any{"message": "done", "style": "info"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toaster.calls) != 1 || toaster.calls[0] != "done" {
		t.Fatalf("expected toaster invoked with message, got %#v", toaster.calls)
	}
}
