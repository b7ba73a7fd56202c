package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/requests"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type SynthesizerController struct {
	Log                *zap.Logger
	SynthesizerUsecase contracts.SynthesizerUsecase
}

var (
	synthesizerControllerInstance *SynthesizerController
	onceSynthesizerController     sync.Once
)

func NewSynthesizerController(logger *zap.Logger, synthesizerUsecase contracts.SynthesizerUsecase) *SynthesizerController {
	onceSynthesizerController.Do(func() {
		instance := &SynthesizerController{
			Log:                logger,
			SynthesizerUsecase: synthesizerUsecase,
		}
		synthesizerControllerInstance = instance
	})
	return synthesizerControllerInstance
}

func (ctrl *SynthesizerController) BuildHierarchy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Debug("Hierarchy build started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKey, r.URL.Path),
		zap.String(constvars.LoggingMethodKey, r.Method),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	response, err := ctrl.SynthesizerUsecase.BuildHierarchy(ctx)
	if err != nil {
		ctrl.Log.Error("Failed to build hierarchy",
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

	ctrl.Log.Info("Hierarchy built",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("hospital_count", response.Hospitals),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.BuildHierarchySuccessMessage, response)
}

func (ctrl *SynthesizerController) GenerateCases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := utils.GetRequestID(r.Context())

	request := new(requests.GenerateCases)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("Failed to parse request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 300*time.Second)
	defer cancel()

	response, err := ctrl.SynthesizerUsecase.GenerateCases(ctx, request)
	if err != nil {
		ctrl.Log.Error("Failed to generate cases",
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

	ctrl.Log.Info("Synthetic cases generated",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, response.Persisted),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.GenerateCasesSuccessMessage, response)
}
