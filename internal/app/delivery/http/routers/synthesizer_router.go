package routers

import (
	"kpim-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachSynthesizerRoutes(router chi.Router, synthesizerController *controllers.SynthesizerController) {
	router.Post("/hierarchy", synthesizerController.BuildHierarchy)
	router.Post("/cases", synthesizerController.GenerateCases)
}
