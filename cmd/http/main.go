package main

import (
	"context"
	"fmt"
	"ips-timeline-service/internal/app/config"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/delivery/http/controllers"
	"ips-timeline-service/internal/app/delivery/http/middlewares"
	"ips-timeline-service/internal/app/delivery/http/routers"
	"ips-timeline-service/internal/app/drivers/database"
	"ips-timeline-service/internal/app/drivers/logger"
	"ips-timeline-service/internal/app/drivers/messaging"
	"ips-timeline-service/internal/app/services/core/compositions"
	"ips-timeline-service/internal/app/services/core/laboratory"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/app/services/core/timeline"
	"ips-timeline-service/internal/app/services/fhir_spark/clinical_resources"
	fhirCompositions "ips-timeline-service/internal/app/services/fhir_spark/compositions"
	"ips-timeline-service/internal/app/services/fhir_spark/fhirhttp"
	"ips-timeline-service/internal/app/services/shared/locker"
	"ips-timeline-service/internal/app/services/shared/redis"
	"ips-timeline-service/internal/app/services/shared/session"
	"ips-timeline-service/internal/app/services/shared/timelinequeue"
	"ips-timeline-service/internal/pkg/constvars"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if internalConfig.Session.Store == constvars.SessionStoreRedis {
		bootstrap.Redis, err = database.NewRedisClient(driverConfig)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		zapLogger.Info("Successfully connected to Redis")
	}

	if internalConfig.Timeline.EventsEnabled {
		bootstrap.RabbitMQ, err = messaging.NewRabbitMQ(driverConfig)
		if err != nil {
			zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		zapLogger.Info("Successfully connected to RabbitMQ")
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", internalConfig.App.Address, internalConfig.App.Port),
		Handler: bootstrap.Router,
	}

	go func() {
		zapLogger.Info("Server is listening", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	// FHIR
	requester := fhirhttp.NewRequester(fhirhttp.Config{
		BaseURL:              internalConfig.FHIR.BaseUrl,
		AuthToken:            internalConfig.FHIR.AuthToken,
		Timeout:              time.Duration(internalConfig.FHIR.RequestTimeoutInSecond) * time.Second,
		MaxRequestsPerSecond: internalConfig.FHIR.MaxRequestsPerSecond,
	}, log)
	compositionFhirClient := fhirCompositions.NewCompositionFhirClient(requester, log)
	clinicalResourceFhirClient := clinical_resources.NewClinicalResourceFhirClient(requester, log)

	// Sessions
	var sessionStore contracts.SessionStore
	var lockerService contracts.LockerService
	if bootstrap.Redis != nil {
		redisRepository := redis.NewRedisRepository(bootstrap.Redis)
		ttl := time.Duration(internalConfig.Session.TTLInMinutes) * time.Minute
		sessionStore = session.NewRedisStore(redisRepository, ttl, log)
		lockerService = locker.NewLockService(redisRepository, log)
	} else {
		sessionStore = session.NewMemoryStore()
	}

	// Events
	var publisher contracts.TimelineEventPublisher = timelinequeue.NoopPublisher{}
	if bootstrap.RabbitMQ != nil {
		ch, err := bootstrap.RabbitMQ.Channel()
		if err != nil {
			return err
		}
		queueService, err := timelinequeue.NewService(ch, log, internalConfig.Timeline.EventsQueue)
		if err != nil {
			return err
		}
		publisher = queueService
	}

	// Usecases
	walker := timeline.NewWalker(compositionFhirClient, clinicalResourceFhirClient, log)
	timelineUsecase := timeline.NewTimelineUsecase(walker, sessionStore, lockerService, publisher, internalConfig, log)
	laboratoryUsecase := laboratory.NewLaboratoryUsecase(timelineUsecase, log)
	referenceRangeUsecase := reference_ranges.NewReferenceRangeUsecase(log)
	compositionUsecase := compositions.NewCompositionUsecase(compositionFhirClient, log)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares.NewMiddlewares(log, internalConfig),
		&routers.Controllers{
			Timeline:       controllers.NewTimelineController(log, timelineUsecase),
			Laboratory:     controllers.NewLaboratoryController(log, laboratoryUsecase),
			ReferenceRange: controllers.NewReferenceRangeController(log, referenceRangeUsecase),
			Composition:    controllers.NewCompositionController(log, compositionUsecase),
		},
	)
	return nil
}
