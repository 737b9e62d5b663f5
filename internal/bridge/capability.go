package bridge

import (
	"context"
	"fmt"

	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// Capability is a named, permission-gated host action invocable by the
// Guest. Capabilities validate their own payload shape; the contract schema
// tables do not apply to them.
type Capability struct {
	// Name is the reserved event name that invokes this capability.
	Name string

	// RequiredPermission gates execution when non-empty. Enforcement depends
	// on the caller's permission mode.
	RequiredPermission string

	// ValidatePayload checks the payload shape before the handler runs.
	// A nil validator accepts any payload.
	ValidatePayload func(payload any) error

	// Handler executes the capability. Side effects are the capability's own
	// concern; the router only returns the result.
	Handler func(ctx context.Context, payload any) (any, error)
}

// CapabilitySet maps reserved event names to their capabilities.
type CapabilitySet map[string]Capability

// NewCapabilitySet builds a lookup table from capability entries.
func NewCapabilitySet(caps ...Capability) (CapabilitySet, error) {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		if c.Name == "" {
			return nil, errspkg.ErrCapabilityRequired
		}
		if c.Handler == nil {
			return nil, fmt.Errorf("%w: %s", errspkg.ErrHandlerRequired, c.Name)
		}
		set[c.Name] = c
	}
	return set, nil
}

// Reserved capability event names and their permissions.
const (
	CapabilityShowToast     = "SHOW_TOAST"
	CapabilityTriggerHaptic = "TRIGGER_HAPTIC"

	PermissionToast  = "toast"
	PermissionHaptic = "haptic"
)

// Toaster presents a transient notification to the user. Hosts substitute
// their native implementation at composition time; the default only logs.
type Toaster interface {
	ShowToast(ctx context.Context, message, style string) error
}

// Haptics triggers tactile feedback. Same injection rule as Toaster.
type Haptics interface {
	TriggerFeedback(ctx context.Context, kind string) error
}

// ShowToastCapability wires a Toaster into the capability table.
func ShowToastCapability(t Toaster) Capability {
	return Capability{
		Name:               CapabilityShowToast,
		RequiredPermission: PermissionToast,
		ValidatePayload: func(payload any) error {
			fields, ok := payload.(map[string]any)
			if !ok {
				return fmt.Errorf("toast payload must be an object, got %T", payload)
			}
			message, ok := fields["message"].(string)
			if !ok || message == "" {
				return fmt.Errorf("toast payload requires a non-empty message string")
			}
			if style, present := fields["style"]; present {
				if _, ok := style.(string); !ok {
					return fmt.Errorf("toast style must be a string, got %T", style)
				}
			}
			return nil
		},
		Handler: func(ctx context.Context, payload any) (any, error) {
			fields, _ := payload.(map[string]any)
			message, _ := fields["message"].(string)
			style, _ := fields["style"].(string)
			return nil, t.ShowToast(ctx, message, style)
		},
	}
}

// TriggerHapticCapability wires a Haptics implementation into the capability
// table.
func TriggerHapticCapability(h Haptics) Capability {
	return Capability{
		Name:               CapabilityTriggerHaptic,
		RequiredPermission: PermissionHaptic,
		ValidatePayload: func(payload any) error {
			fields, ok := payload.(map[string]any)
			if !ok {
				return fmt.Errorf("haptic payload must be an object, got %T", payload)
			}
			if kind, present := fields["type"]; present {
				if _, ok := kind.(string); !ok {
					return fmt.Errorf("haptic type must be a string, got %T", kind)
				}
			}
			return nil
		},
		Handler: func(ctx context.Context, payload any) (any, error) {
			fields, _ := payload.(map[string]any)
			kind, _ := fields["type"].(string)
			return nil, h.TriggerFeedback(ctx, kind)
		},
	}
}

type loggingToaster struct {
	log loggingpkg.ServiceLogger
}

// NewLoggingToaster returns the default Toaster, which records the toast
// instead of presenting UI.
func NewLoggingToaster(log loggingpkg.ServiceLogger) Toaster {
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	return &loggingToaster{log: log}
}

func (t *loggingToaster) ShowToast(_ context.Context, message, style string) error {
	t.log.Info("toast", loggingpkg.LogFields{"message": message, "style": style})
	return nil
}

type loggingHaptics struct {
	log loggingpkg.ServiceLogger
}

// NewLoggingHaptics returns the default Haptics, which records the feedback
// request instead of vibrating anything.
func NewLoggingHaptics(log loggingpkg.ServiceLogger) Haptics {
	if log == nil {
		log = loggingpkg.NopLogger()
	}
	return &loggingHaptics{log: log}
}

func (h *loggingHaptics) TriggerFeedback(_ context.Context, kind string) error {
	h.log.Info("haptic feedback", loggingpkg.LogFields{"type": kind})
	return nil
}
