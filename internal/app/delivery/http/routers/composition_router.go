package routers

import (
	"ips-timeline-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPatientCompositionRoutes(router chi.Router, compositionController *controllers.CompositionController) {
	router.Post("/composition/entries", compositionController.AttachEntry)
}

func attachCompositionRoutes(router chi.Router, compositionController *controllers.CompositionController) {
	router.Delete("/entries", compositionController.DetachReference)
}
