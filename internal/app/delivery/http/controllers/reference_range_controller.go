package controllers

import (
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ReferenceRangeController struct {
	Log                   *zap.Logger
	ReferenceRangeUsecase contracts.ReferenceRangeUsecase
}

func NewReferenceRangeController(logger *zap.Logger, referenceRangeUsecase contracts.ReferenceRangeUsecase) *ReferenceRangeController {
	return &ReferenceRangeController{
		Log:                   logger,
		ReferenceRangeUsecase: referenceRangeUsecase,
	}
}

func (ctrl *ReferenceRangeController) FindAll(w http.ResponseWriter, r *http.Request) {
	result, err := ctrl.ReferenceRangeUsecase.FindAll(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReferenceRangesSuccessMessage, result)
}

func (ctrl *ReferenceRangeController) FindByAnalyte(w http.ResponseWriter, r *http.Request) {
	result, err := ctrl.ReferenceRangeUsecase.FindByAnalyte(r.Context(), chi.URLParam(r, constvars.URLParamAnalyte))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetReferenceRangesSuccessMessage, result)
}

func (ctrl *ReferenceRangeController) Classify(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	analyte := chi.URLParam(r, constvars.URLParamAnalyte)
	ctrl.Log.Info("ReferenceRangeController.Classify called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalyteKey, analyte),
	)

	request := new(requests.ClassifyValue)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("ReferenceRangeController.Classify error decoding JSON",
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

	result, err := ctrl.ReferenceRangeUsecase.Classify(r.Context(), analyte, request)
	if err != nil {
		ctrl.Log.Error("ReferenceRangeController.Classify error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ClassifyValueSuccessMessage, result)
}
