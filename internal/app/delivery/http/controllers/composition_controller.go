package controllers

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const compositionRequestTimeout = 30 * time.Second

type CompositionController struct {
	Log                *zap.Logger
	CompositionUsecase contracts.CompositionUsecase
}

func NewCompositionController(logger *zap.Logger, compositionUsecase contracts.CompositionUsecase) *CompositionController {
	return &CompositionController{
		Log:                logger,
		CompositionUsecase: compositionUsecase,
	}
}

func (ctrl *CompositionController) AttachEntry(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CompositionController.AttachEntry requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	ctrl.Log.Info("CompositionController.AttachEntry called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	request := new(requests.AttachEntry)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("CompositionController.AttachEntry error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("CompositionController.AttachEntry validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), compositionRequestTimeout)
	defer cancel()

	result, err := ctrl.CompositionUsecase.AttachEntry(ctx, patientID, request)
	if err != nil {
		ctrl.Log.Error("CompositionController.AttachEntry error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	status := constvars.StatusOK
	if result.Attached {
		status = constvars.StatusCreated
	}
	utils.BuildSuccessResponse(w, status, constvars.AttachEntrySuccessMessage, result)
}

func (ctrl *CompositionController) DetachReference(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CompositionController.DetachReference requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := &requests.DetachReference{
		Reference: strings.TrimSpace(r.URL.Query().Get(constvars.URLQueryParamReference)),
	}
	ctrl.Log.Info("CompositionController.DetachReference called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReferenceKey, request.Reference),
	)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), compositionRequestTimeout)
	defer cancel()

	result, err := ctrl.CompositionUsecase.DetachReference(ctx, request.Reference)
	if err != nil {
		ctrl.Log.Error("CompositionController.DetachReference error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DetachReferenceSuccessMessage, result)
}
