package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/hostwire/hostwire/internal/bridge/contract"
)

type stubToaster struct {
	calls []string
}

func (s *stubToaster) ShowToast(_ context.Context, message, style string) error {
	s.calls = append(s.calls, message)
	return nil
}

func newTestRouter(t *testing.T, opts RouterOptions) (*Router, *recordingCollector) {
	t.Helper()
	col := &recordingCollector{}
	if opts.Bus == nil {
		opts.Bus = NewBus(nil)
	}
	if opts.Collector == nil {
		opts.Collector = col
	}
	r, err := NewRouter(opts)
	if err != nil {
		t.Fatalf("unexpected error building router: %v", err)
	}
	return r, col
}

func TestRouterRequiresBus(t *testing.T) {
	if _, err := NewRouter(RouterOptions{}); err == nil {
		t.Fatal("expected error for missing bus")
	}
}

func TestRouterCapabilityAllowed(t *testing.T) {
	toaster := &stubToaster{}
	caps, err := NewCapabilitySet(ShowToastCapability(toaster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, col := newTestRouter(t, RouterOptions{Capabilities: caps})

	r.Route(context.Background(), Envelope{
		Event:   CapabilityShowToast,
		Payload: map[string]any{"message": "hello"},
	}, PermissionPolicy{Declared: []string{PermissionToast}, Mode: PermissionDeny})

	if len(toaster.calls) != 1 || toaster.calls[0] != "hello" {
		t.Fatalf("expected one toast, got %#v", toaster.calls)
	}
	if len(col.all()) != 0 {
		t.Fatalf("expected no violations, got %#v", col.all())
	}
}

func TestRouterCapabilityDenied(t *testing.T) {
	toaster := &stubToaster{}
	caps, _ := NewCapabilitySet(ShowToastCapability(toaster))
	r, col := newTestRouter(t, RouterOptions{Capabilities: caps})

	r.Route(context.Background(), Envelope{
		Event:   CapabilityShowToast,
		Payload: map[string]any{"message": "hello"},
	}, PermissionPolicy{Mode: PermissionDeny})

	if len(toaster.calls) != 0 {
		t.Fatal("denied capability must not execute")
	}
	vs := col.all()
	if len(vs) != 1 || vs[0].Kind != ViolationMissingPermission {
		t.Fatalf("expected one missing_permission violation, got %#v", vs)
	}
	if vs[0].ID == "" || vs[0].At.IsZero() {
		t.Fatal("expected violation metadata to be filled in")
	}
}

func TestRouterCapabilityWarnModeExecutes(t *testing.T) {
	toaster := &stubToaster{}
	caps, _ := NewCapabilitySet(ShowToastCapability(toaster))
	r, col := newTestRouter(t, RouterOptions{Capabilities: caps})

	r.Route(context.Background(), Envelope{
		Event:   CapabilityShowToast,
		Payload: map[string]any{"message": "hello"},
	}, PermissionPolicy{Mode: PermissionWarn})

	if len(toaster.calls) != 1 {
		t.Fatal("warn mode must record the violation but still execute")
	}
	vs := col.all()
	if len(vs) != 1 || vs[0].Kind != ViolationMissingPermission {
		t.Fatalf("expected one missing_permission violation, got %#v", vs)
	}
}

func TestRouterCapabilityAllowModeSkipsCheck(t *testing.T) {
	toaster := &stubToaster{}
	caps, _ := NewCapabilitySet(ShowToastCapability(toaster))
	r, col := newTestRouter(t, RouterOptions{Capabilities: caps})

	r.Route(context.Background(), Envelope{
		Event:   CapabilityShowToast,
		Payload: map[string]any{"message": "hello"},
	}, PermissionPolicy{Mode: PermissionAllow})

	if len(toaster.calls) != 1 {
		t.Fatal("allow mode must execute without declared permissions")
	}
	if len(col.all()) != 0 {
		t.Fatalf("allow mode must not record violations, got %#v", col.all())
	}
}

func TestRouterCapabilityInvalidPayloadDropped(t *testing.T) {
	toaster := &stubToaster{}
	caps, _ := NewCapabilitySet(ShowToastCapability(toaster))
	log := &recordingLogger{}
	r, col := newTestRouter(t, RouterOptions{Capabilities: caps, Logger: log})

	r.Route(context.Background(), Envelope{
		Event:   CapabilityShowToast,
		Payload: map[string]any{"message": 42},
	}, PermissionPolicy{Mode: PermissionAllow})

	if len(toaster.calls) != 0 {
		t.Fatal("invalid payload must not reach the handler")
	}
	if len(col.all()) != 0 {
		t.Fatalf("capability payload failures log, they do not collect: %#v", col.all())
	}
	if log.warnCount() != 1 {
		t.Fatalf("expected one warning, got %d", log.warnCount())
	}
}

func TestRouterCapabilityHandlerErrorReachesHooks(t *testing.T) {
	wantErr := errors.New("toast hardware on fire")
	caps, _ := NewCapabilitySet(Capability{
		Name: "FAIL",
		Handler: func(ctx context.Context, payload any) (any, error) {
			return nil, wantErr
		},
	})

	var hookErr error
	r, _ := newTestRouter(t, RouterOptions{
		Capabilities: caps,
		Hooks: RouteHooks{
			OnRouteError: func(rc RouteContext, err error) { hookErr = err },
		},
	})

	r.Route(context.Background(), Envelope{Event: "FAIL"}, PermissionPolicy{Mode: PermissionAllow})

	if !errors.Is(hookErr, wantErr) {
		t.Fatalf("expected the handler error in OnRouteError, got %v", hookErr)
	}
}

func TestRouterCapabilityResultReturned(t *testing.T) {
	caps, _ := NewCapabilitySet(Capability{
		Name: "ECHO",
		Handler: func(ctx context.Context, payload any) (any, error) {
			return payload, nil
		},
	})
	r, _ := newTestRouter(t, RouterOptions{Capabilities: caps})

	got := r.Route(context.Background(), Envelope{Event: "ECHO", Payload: "pong"}, PermissionPolicy{Mode: PermissionAllow})
	if got != "pong" {
		t.Fatalf("expected handler result, got %v", got)
	}
}

func TestRouterContractValidPayload(t *testing.T) {
	table := contract.Table{
		"pet:state": contract.Schema{
			"sleeping": contract.Field{Type: contract.TypeBoolean},
			"mood":     contract.Field{Type: contract.TypeString, Optional: true},
		},
	}

	var seen []string
	r, col := newTestRouter(t, RouterOptions{
		Contracts:       table,
		OnContractEvent: func(event string, payload any) { seen = append(seen, event) },
	})

	r.Route(context.Background(), Envelope{
		Event:   "pet:state",
		Payload: map[string]any{"sleeping": true},
	}, PermissionPolicy{})

	if len(seen) != 1 || seen[0] != "pet:state" {
		t.Fatalf("expected contract event delivered, got %#v", seen)
	}
	if len(col.all()) != 0 {
		t.Fatalf("expected no violations, got %#v", col.all())
	}
}

func TestRouterContractInvalidPayload(t *testing.T) {
	table := contract.Table{
		"pet:state": contract.Schema{
			"sleeping": contract.Field{Type: contract.TypeBoolean},
		},
	}

	var seen []string
	r, col := newTestRouter(t, RouterOptions{
		Contracts:       table,
		OnContractEvent: func(event string, payload any) { seen = append(seen, event) },
	})

	r.Route(context.Background(), Envelope{
		Event:   "pet:state",
		Payload: map[string]any{"sleeping": "nope"},
	}, PermissionPolicy{})

	if len(seen) != 0 {
		t.Fatal("invalid contract payload must not be delivered")
	}
	vs := col.all()
	if len(vs) != 1 || vs[0].Kind != ViolationInvalidPayload {
		t.Fatalf("expected one invalid_payload violation, got %#v", vs)
	}
}

func TestRouterUnknownEventForwardedByDefault(t *testing.T) {
	bus := NewBus(nil)
	var got []any
	bus.Subscribe("custom:event", func(payload any) { got = append(got, payload) })

	r, col := newTestRouter(t, RouterOptions{Bus: bus})
	r.Route(context.Background(), Envelope{Event: "custom:event", Payload: "data"}, PermissionPolicy{})

	if len(got) != 1 || got[0] != "data" {
		t.Fatalf("expected unknown event forwarded to the bus, got %#v", got)
	}
	if len(col.all()) != 0 {
		t.Fatalf("expected no violations in forward mode, got %#v", col.all())
	}
}

func TestRouterUnknownEventForwardDoesNotEcho(t *testing.T) {
	bus := NewBus(nil)
	broadcasts := 0
	bus.addBroadcast(func(event string, payload any) { broadcasts++ })

	r, _ := newTestRouter(t, RouterOptions{Bus: bus})
	r.Route(context.Background(), Envelope{Event: "custom:event"}, PermissionPolicy{})

	if broadcasts != 0 {
		t.Fatalf("forwarded envelopes must not cross the boundary again, got %d", broadcasts)
	}
}

func TestRouterUnknownEventFlagged(t *testing.T) {
	bus := NewBus(nil)
	delivered := 0
	bus.Subscribe("custom:event", func(payload any) { delivered++ })

	r, col := newTestRouter(t, RouterOptions{Bus: bus, UnknownEvents: FlagUnknownEvents})
	r.Route(context.Background(), Envelope{Event: "custom:event"}, PermissionPolicy{})

	if delivered != 0 {
		t.Fatal("flag mode must not forward unknown events")
	}
	vs := col.all()
	if len(vs) != 1 || vs[0].Kind != ViolationUnknownEvent {
		t.Fatalf("expected one unknown_event violation, got %#v", vs)
	}
}

func TestRouterEmptyEventDropped(t *testing.T) {
	log := &recordingLogger{}
	r, col := newTestRouter(t, RouterOptions{Logger: log})

	r.Route(context.Background(), Envelope{}, PermissionPolicy{})

	if len(col.all()) != 0 {
		t.Fatalf("empty event is logged, not collected, got %#v", col.all())
	}
	if log.warnCount() != 1 {
		t.Fatalf("expected a warning for the empty event, got %d", log.warnCount())
	}
}

func TestRouterViolationDirection(t *testing.T) {
	r, col := newTestRouter(t, RouterOptions{
		Direction:     contract.HostToGuest,
		UnknownEvents: FlagUnknownEvents,
	})

	r.Route(context.Background(), Envelope{Event: "mystery"}, PermissionPolicy{})

	vs := col.all()
	if len(vs) != 1 || vs[0].Direction != contract.HostToGuest {
		t.Fatalf("expected host_to_guest direction on the violation, got %#v", vs)
	}
}

func TestRouterHooksObserveBranches(t *testing.T) {
	var branches []RouteBranch
	r, _ := newTestRouter(t, RouterOptions{
		Hooks: RouteHooks{
			OnRouteDone: func(rc RouteContext) { branches = append(branches, rc.Branch) },
		},
	})

	r.Route(context.Background(), Envelope{Event: "anything"}, PermissionPolicy{})
	r.Route(context.Background(), Envelope{}, PermissionPolicy{})

	if len(branches) != 2 || branches[0] != BranchForwarded || branches[1] != BranchDropped {
		t.Fatalf("expected forwarded then dropped, got %#v", branches)
	}
}
