package config

import (
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "0.0.0.0"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api"),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUESTS", 100),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 2),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		FHIR: AppFHIR{
			BaseUrl:                utils.GetEnvString("FHIR_BASE_URL", "https://ips-challenge.it.hs-heilbronn.de/fhir"),
			UseHistory:             utils.GetEnvBool("FHIR_USE_HISTORY", false),
			HistoryVersion:         utils.GetEnvString("FHIR_HISTORY_VERSION", "1"),
			AuthToken:              utils.GetEnvString("FHIR_AUTH_TOKEN", ""),
			MaxRequestsPerSecond:   utils.GetEnvFloat("FHIR_MAX_REQUESTS_PER_SECOND", 10),
			RequestTimeoutInSecond: utils.GetEnvInt("FHIR_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		Session: AppSession{
			Store:        utils.GetEnvString("SESSION_STORE", constvars.SessionStoreMemory),
			TTLInMinutes: utils.GetEnvInt("SESSION_TTL_IN_MINUTES", 60),
		},
		Timeline: AppTimeline{
			EventsEnabled: utils.GetEnvBool("TIMELINE_EVENTS_ENABLED", false),
			EventsQueue:   utils.GetEnvString("APP_RABBITMQ_TIMELINE_QUEUE", "ips_timeline_events"),
		},
	}
}
