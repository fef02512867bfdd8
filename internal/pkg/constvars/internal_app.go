package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SESSION_ID_KEY           ContextKey = "session_id"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	SessionRedisKeyFormat = "ips-timeline:session:%s"
	SessionLockKeyFormat  = "ips-timeline:lock:session:%s"
)

const (
	TimelineEventTypeBuilt = "timeline.built"
)
