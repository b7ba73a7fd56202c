package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type IndicatorController struct {
	Log              *zap.Logger
	IndicatorUsecase contracts.IndicatorUsecase
}

var (
	indicatorControllerInstance *IndicatorController
	onceIndicatorController     sync.Once
)

func NewIndicatorController(logger *zap.Logger, indicatorUsecase contracts.IndicatorUsecase) *IndicatorController {
	onceIndicatorController.Do(func() {
		instance := &IndicatorController{
			Log:              logger,
			IndicatorUsecase: indicatorUsecase,
		}
		indicatorControllerInstance = instance
	})
	return indicatorControllerInstance
}

func (ctrl *IndicatorController) GetProviderTable(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Debug("Provider table retrieval started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKey, r.URL.Path),
		zap.String(constvars.LoggingMethodKey, r.Method),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := ctrl.IndicatorUsecase.ProviderTable(ctx)
	if err != nil {
		ctrl.Log.Error("Failed to retrieve provider table",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("Provider table retrieved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingRowCountKey, len(response.Rows)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetProviderRowsSuccessMessage, response)
}

func (ctrl *IndicatorController) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := ctrl.IndicatorUsecase.MonthlyTrend(ctx)
	if err != nil {
		ctrl.Log.Error("Failed to retrieve monthly trend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTrendRowsSuccessMessage, response)
}

func (ctrl *IndicatorController) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := ctrl.IndicatorUsecase.Breakdown(ctx)
	if err != nil {
		ctrl.Log.Error("Failed to retrieve indicator breakdown",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBreakdownRowsSuccessMessage, response)
}

func (ctrl *IndicatorController) GetFlaggedCases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := ctrl.IndicatorUsecase.FlaggedCases(ctx)
	if err != nil {
		ctrl.Log.Error("Failed to retrieve flagged cases",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("Flagged cases retrieved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, len(response.Cases)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetFlaggedCasesSuccessMessage, response)
}
