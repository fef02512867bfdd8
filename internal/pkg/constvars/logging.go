package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionIDKey      = "session_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingCompositionIDKey  = "composition_id"
	LoggingHistoryVersionKey = "history_version"
	LoggingReferenceKey      = "reference"
	LoggingResourceTypeKey   = "resource_type"
	LoggingSectionKey        = "section"
	LoggingCategoryKey       = "category"
	LoggingAnalyteKey        = "analyte"
	LoggingURLKey            = "url"
	LoggingQueueKey          = "queue"
	LoggingEntriesCountKey   = "entries_count"
	LoggingFailedCountKey    = "failed_count"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingRedisKey          = "redis_key"
	LoggingLockValueKey      = "lock_value"
	LoggingEventIDKey        = "event_id"
)
