package routers

import (
	"fmt"
	"ips-timeline-service/internal/app/config"
	"ips-timeline-service/internal/app/delivery/http/controllers"
	"ips-timeline-service/internal/app/delivery/http/middlewares"
	"ips-timeline-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type Controllers struct {
	Timeline       *controllers.TimelineController
	Laboratory     *controllers.LaboratoryController
	ReferenceRange *controllers.ReferenceRangeController
	Composition    *controllers.CompositionController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	ctrls *Controllers,
) {
	corsOptions := cors.Options{
		AllowedOrigins: internalConfig.App.AllowedOrigins,
		AllowedMethods: []string{constvars.MethodGet, constvars.MethodPost, constvars.MethodPut, constvars.MethodDelete, constvars.MethodOptions},
		AllowedHeaders: []string{
			constvars.HeaderAccept,
			constvars.HeaderAuthorization,
			constvars.HeaderContentType,
			constvars.HeaderXCSRFToken,
			constvars.HeaderXRequestID,
			constvars.HeaderXSessionID,
		},
		ExposedHeaders:   []string{constvars.HeaderLink, constvars.HeaderXRequestID, constvars.HeaderXSessionID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	if internalConfig.App.MaxRequests > 0 {
		window := time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
		if window <= 0 {
			window = time.Second
		}
		router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, window))
	}

	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.BodyLimit)

	endpointPrefix := fmt.Sprintf("/%s", strings.Trim(internalConfig.App.EndpointPrefix, "/"))
	versionPrefix := fmt.Sprintf("/%s", strings.Trim(internalConfig.App.Version, "/"))

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/patients/{patient_id}", func(r chi.Router) {
				r.Use(middlewares.Session)
				attachTimelineRoutes(r, ctrls.Timeline)
				attachLaboratoryRoutes(r, ctrls.Laboratory)
				attachPatientCompositionRoutes(r, ctrls.Composition)
			})

			r.Route("/session", func(r chi.Router) {
				r.Use(middlewares.Session)
				attachSessionRoutes(r, ctrls.Timeline)
			})

			r.Route("/compositions", func(r chi.Router) {
				attachCompositionRoutes(r, ctrls.Composition)
			})

			r.Route("/reference-ranges", func(r chi.Router) {
				attachReferenceRangeRoutes(r, ctrls.ReferenceRange)
			})
		})
	})
}
