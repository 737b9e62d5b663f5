package hostwire

import (
	bridgepkg "github.com/hostwire/hostwire/internal/bridge"
	configpkg "github.com/hostwire/hostwire/internal/bridge/config"
	contractpkg "github.com/hostwire/hostwire/internal/bridge/contract"
	errspkg "github.com/hostwire/hostwire/internal/bridge/errors"
	idspkg "github.com/hostwire/hostwire/internal/bridge/ids"
	jsoncodec "github.com/hostwire/hostwire/internal/bridge/jsoncodec"
	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
	newtransport "github.com/hostwire/hostwire/transport"
)

type (
	Config   = configpkg.Config
	Envelope = bridgepkg.Envelope

	// Event bus
	Bus             = bridgepkg.Bus
	BusOption       = bridgepkg.BusOption
	Callback        = bridgepkg.Callback
	SubscribeOption = bridgepkg.SubscribeOption

	// Guest-side channels
	Outbound              = bridgepkg.Outbound
	OutboundOption        = bridgepkg.OutboundOption
	TransmitFunc          = bridgepkg.TransmitFunc
	Inbound               = bridgepkg.Inbound
	UpstreamSubscribeFunc = bridgepkg.UpstreamSubscribeFunc

	// Host-side routing
	Router             = bridgepkg.Router
	RouterOptions      = bridgepkg.RouterOptions
	PermissionPolicy   = bridgepkg.PermissionPolicy
	PermissionMode     = bridgepkg.PermissionMode
	UnknownEventPolicy = bridgepkg.UnknownEventPolicy

	// Capabilities
	Capability    = bridgepkg.Capability
	CapabilitySet = bridgepkg.CapabilitySet
	Toaster       = bridgepkg.Toaster
	Haptics       = bridgepkg.Haptics

	// Violations
	Violation     = bridgepkg.Violation
	ViolationKind = bridgepkg.ViolationKind
	Collector     = bridgepkg.Collector
	CollectorFunc = bridgepkg.CollectorFunc

	// Boundary adapter
	Adapter        = bridgepkg.Adapter
	AdapterOptions = bridgepkg.AdapterOptions
	Transport      = bridgepkg.Transport

	// Route lifecycle hooks
	RouteBranch  = bridgepkg.RouteBranch
	RouteContext = bridgepkg.RouteContext
	RouteHooks   = bridgepkg.RouteHooks

	// Contract schemas
	ContractField     = contractpkg.Field
	ContractSchema    = contractpkg.Schema
	ContractTable     = contractpkg.Table
	ContractTables    = contractpkg.Tables
	ContractDirection = contractpkg.Direction
	ContractTypeTag   = contractpkg.TypeTag

	// Observability
	Metrics = bridgepkg.Metrics

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	// Modular transport types
	TransportBuilder      = newtransport.Builder
	TransportConfig       = newtransport.Config
	TransportEndpoint     = newtransport.Endpoint
	TransportRegistry     = newtransport.Registry
	TransportCapabilities = newtransport.Capabilities
)

const (
	PermissionAllow = bridgepkg.PermissionAllow
	PermissionWarn  = bridgepkg.PermissionWarn
	PermissionDeny  = bridgepkg.PermissionDeny

	ForwardUnknownEvents = bridgepkg.ForwardUnknownEvents
	FlagUnknownEvents    = bridgepkg.FlagUnknownEvents

	ViolationUnknownEvent      = bridgepkg.ViolationUnknownEvent
	ViolationInvalidPayload    = bridgepkg.ViolationInvalidPayload
	ViolationMissingPermission = bridgepkg.ViolationMissingPermission

	BranchCapability = bridgepkg.BranchCapability
	BranchContract   = bridgepkg.BranchContract
	BranchForwarded  = bridgepkg.BranchForwarded
	BranchDropped    = bridgepkg.BranchDropped

	CapabilityShowToast     = bridgepkg.CapabilityShowToast
	CapabilityTriggerHaptic = bridgepkg.CapabilityTriggerHaptic
	PermissionToast         = bridgepkg.PermissionToast
	PermissionHaptic        = bridgepkg.PermissionHaptic

	ContractHostToGuest = contractpkg.HostToGuest
	ContractGuestToHost = contractpkg.GuestToHost

	TypeString  = contractpkg.TypeString
	TypeNumber  = contractpkg.TypeNumber
	TypeBoolean = contractpkg.TypeBoolean
	TypeUnknown = contractpkg.TypeUnknown

	DefaultMaxListeners  = bridgepkg.DefaultMaxListeners
	DefaultQueueCapacity = bridgepkg.DefaultQueueCapacity
	DefaultMaxRetries    = bridgepkg.DefaultMaxRetries
	DefaultRetryInterval = bridgepkg.DefaultRetryInterval
)

var (
	NewBus           = bridgepkg.NewBus
	WithMaxListeners = bridgepkg.WithMaxListeners
	WithBusMetrics   = bridgepkg.WithBusMetrics
	WithThrottle     = bridgepkg.WithThrottle
	WithDebounce     = bridgepkg.WithDebounce

	NewOutbound         = bridgepkg.NewOutbound
	WithQueueCapacity   = bridgepkg.WithQueueCapacity
	WithMaxRetries      = bridgepkg.WithMaxRetries
	WithRetryInterval   = bridgepkg.WithRetryInterval
	WithOutboundMetrics = bridgepkg.WithOutboundMetrics
	NewInbound          = bridgepkg.NewInbound

	NewRouter  = bridgepkg.NewRouter
	NewAdapter = bridgepkg.NewAdapter

	NewCapabilitySet        = bridgepkg.NewCapabilitySet
	ShowToastCapability     = bridgepkg.ShowToastCapability
	TriggerHapticCapability = bridgepkg.TriggerHapticCapability
	NewLoggingToaster       = bridgepkg.NewLoggingToaster
	NewLoggingHaptics       = bridgepkg.NewLoggingHaptics

	NewLoggingCollector = bridgepkg.NewLoggingCollector

	// Route lifecycle hooks
	LoggingRouteHooks = bridgepkg.LoggingRouteHooks
	MetricsRouteHooks = bridgepkg.MetricsRouteHooks

	// Contract schemas
	ValidatePayload   = contractpkg.Validate
	LoadContracts     = contractpkg.LoadTables
	LoadContractsFile = contractpkg.LoadTablesFile

	// Observability
	NewMetrics   = bridgepkg.NewMetrics
	ServeMetrics = bridgepkg.ServeMetrics

	LoadConfigFile = configpkg.LoadFile
	ValidateConfig = configpkg.ValidateConfig

	// Modular transport registry.
	// Import individual transports via: _ "github.com/hostwire/hostwire/transport/nats"
	DefaultTransportRegistry = newtransport.DefaultRegistry
	RegisterTransport        = newtransport.Register
	BuildTransport           = newtransport.Build
	GetTransportCapabilities = newtransport.GetCapabilities

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewWatermillAdapter       = loggingpkg.NewWatermillAdapter
	NopLogger                 = loggingpkg.NopLogger

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	CreateULID = idspkg.CreateULID

	ErrBusRequired        = errspkg.ErrBusRequired
	ErrRouterRequired     = errspkg.ErrRouterRequired
	ErrTransportRequired  = errspkg.ErrTransportRequired
	ErrTransmitRequired   = errspkg.ErrTransmitRequired
	ErrUpstreamRequired   = errspkg.ErrUpstreamRequired
	ErrEventNameRequired  = errspkg.ErrEventNameRequired
	ErrCallbackRequired   = errspkg.ErrCallbackRequired
	ErrHandlerRequired    = errspkg.ErrHandlerRequired
	ErrCapabilityRequired = errspkg.ErrCapabilityRequired
	ErrSchemaRequired     = errspkg.ErrSchemaRequired
	ErrAdapterDisposed    = errspkg.ErrAdapterDisposed
	ErrConfigRequired     = errspkg.ErrConfigRequired
	ErrLoggerRequired     = errspkg.ErrLoggerRequired
)
