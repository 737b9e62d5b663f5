package errors

import sterrors "errors"

var (
	ErrBusRequired        = sterrors.New("hostwire: event bus is required")
	ErrRouterRequired     = sterrors.New("hostwire: message router is required")
	ErrTransportRequired  = sterrors.New("hostwire: transport is required")
	ErrTransmitRequired   = sterrors.New("hostwire: transmit function is required")
	ErrUpstreamRequired   = sterrors.New("hostwire: upstream subscribe function is required")
	ErrEventNameRequired  = sterrors.New("hostwire: event name is required")
	ErrCallbackRequired   = sterrors.New("hostwire: callback is required")
	ErrHandlerRequired    = sterrors.New("hostwire: capability handler is required")
	ErrCapabilityRequired = sterrors.New("hostwire: capability name is required")
	ErrSchemaRequired     = sterrors.New("hostwire: contract schema table is required")
	ErrAdapterDisposed    = sterrors.New("hostwire: adapter is disposed")
	ErrConfigRequired     = sterrors.New("hostwire: config is required")
	ErrLoggerRequired     = sterrors.New("hostwire: logger is required")
)
