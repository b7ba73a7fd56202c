package routers

import (
	"kpim-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachIndicatorRoutes(router chi.Router, indicatorController *controllers.IndicatorController) {
	router.Route("/postop-adverse", func(r chi.Router) {
		r.Get("/providers", indicatorController.GetProviderTable)
		r.Get("/trend", indicatorController.GetMonthlyTrend)
		r.Get("/breakdown", indicatorController.GetBreakdown)
		r.Get("/cases", indicatorController.GetFlaggedCases)
	})
}
