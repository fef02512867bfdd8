package routers

import (
	"ips-timeline-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachReferenceRangeRoutes(router chi.Router, referenceRangeController *controllers.ReferenceRangeController) {
	router.Get("/", referenceRangeController.FindAll)
	router.Get("/{analyte}", referenceRangeController.FindByAnalyte)
	router.Post("/{analyte}/classify", referenceRangeController.Classify)
}
