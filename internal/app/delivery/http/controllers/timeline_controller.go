package controllers

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// A build resolves every section entry sequentially.
const timelineRequestTimeout = 60 * time.Second

type TimelineController struct {
	Log             *zap.Logger
	TimelineUsecase contracts.TimelineUsecase
}

func NewTimelineController(logger *zap.Logger, timelineUsecase contracts.TimelineUsecase) *TimelineController {
	return &TimelineController{
		Log:             logger,
		TimelineUsecase: timelineUsecase,
	}
}

func (ctrl *TimelineController) GetTimeline(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TimelineController.GetTimeline requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	query := utils.BuildTimelineQuery(r)
	ctrl.Log.Info("TimelineController.GetTimeline called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, query.PatientID),
	)

	if err := utils.ValidateStruct(query); err != nil {
		ctrl.Log.Error("TimelineController.GetTimeline validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timelineRequestTimeout)
	defer cancel()

	timeline, err := ctrl.TimelineUsecase.GetFilteredTimeline(ctx, utils.GetSessionID(r.Context()), query)
	if err != nil {
		ctrl.Log.Error("TimelineController.GetTimeline error from usecase",
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

	ctrl.Log.Info("TimelineController.GetTimeline succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntriesCountKey, len(timeline.Entries)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTimelineSuccessMessage, timeline)
}

func (ctrl *TimelineController) ResetSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TimelineController.ResetSession requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("TimelineController.ResetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := ctrl.TimelineUsecase.ResetSession(r.Context(), utils.GetSessionID(r.Context())); err != nil {
		ctrl.Log.Error("TimelineController.ResetSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResetSessionSuccessMessage, nil)
}
