package routers

import (
	"ips-timeline-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachTimelineRoutes(router chi.Router, timelineController *controllers.TimelineController) {
	router.Get("/timeline", timelineController.GetTimeline)
}

func attachSessionRoutes(router chi.Router, timelineController *controllers.TimelineController) {
	router.Delete("/", timelineController.ResetSession)
}

func attachLaboratoryRoutes(router chi.Router, laboratoryController *controllers.LaboratoryController) {
	router.Get("/laboratory/{analyte}", laboratoryController.GetSeries)
}
