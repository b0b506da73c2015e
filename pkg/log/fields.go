package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldRoute     = "route"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Service
	FieldService = "service"

	// Cache
	FieldResource = "resource"
	FieldCacheKey = "cache_key"
	FieldSource   = "source"
	FieldTier     = "tier"

	// Upstream
	FieldPlaceID        = "place_id"
	FieldPhotoReference = "photo_reference"
	FieldQuery          = "query"
	FieldUpstreamOp     = "upstream_op"
	FieldUpstreamStatus = "upstream_status"
)
