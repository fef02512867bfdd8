package controllers

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

type LaboratoryController struct {
	Log               *zap.Logger
	LaboratoryUsecase contracts.LaboratoryUsecase
}

func NewLaboratoryController(logger *zap.Logger, laboratoryUsecase contracts.LaboratoryUsecase) *LaboratoryController {
	return &LaboratoryController{
		Log:               logger,
		LaboratoryUsecase: laboratoryUsecase,
	}
}

func (ctrl *LaboratoryController) GetSeries(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("LaboratoryController.GetSeries requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	query := utils.BuildLaboratoryQuery(r)
	ctrl.Log.Info("LaboratoryController.GetSeries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, query.PatientID),
		zap.String(constvars.LoggingAnalyteKey, query.Analyte),
	)

	if err := utils.ValidateStruct(query); err != nil {
		ctrl.Log.Error("LaboratoryController.GetSeries validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timelineRequestTimeout)
	defer cancel()

	series, err := ctrl.LaboratoryUsecase.GetSeries(ctx, utils.GetSessionID(r.Context()), query)
	if err != nil {
		ctrl.Log.Error("LaboratoryController.GetSeries error from usecase",
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

	ctrl.Log.Info("LaboratoryController.GetSeries succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntriesCountKey, len(series.Points)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetLaboratorySuccessMessage, series)
}
