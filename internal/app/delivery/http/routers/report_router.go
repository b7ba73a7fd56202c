package routers

import (
	"kpim-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachReportRoutes(router chi.Router, reportController *controllers.ReportController) {
	router.Post("/sync", reportController.Sync)
}
