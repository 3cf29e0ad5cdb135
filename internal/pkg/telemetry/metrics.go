package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Provider
	MetricProviderLatency = "provider.latency"
	MetricProviderErrors  = "provider.errors"

	// Autocomplete
	MetricAutocompleteDiscarded = "autocomplete.discarded"

	// Business
	MetricPlacesShared  = "business.places_shared"
	MetricOriginChanges = "business.origin_changes"
)

// Span attribute keys shared by the provider client and use cases.
const (
	AttrOp         = "litpass.op"
	AttrCategory   = "litpass.category"
	AttrRadius     = "litpass.radius_m"
	AttrResults    = "litpass.results"
	AttrSessionID  = "litpass.session_id"
	AttrHTTPStatus = "http.status_code"
)
