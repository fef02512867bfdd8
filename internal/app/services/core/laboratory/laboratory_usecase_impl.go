package laboratory

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"

	"go.uber.org/zap"
)

type laboratoryUsecase struct {
	TimelineUsecase contracts.TimelineUsecase
	Log             *zap.Logger
}

func NewLaboratoryUsecase(timelineUsecase contracts.TimelineUsecase, logger *zap.Logger) contracts.LaboratoryUsecase {
	return &laboratoryUsecase{
		TimelineUsecase: timelineUsecase,
		Log:             logger,
	}
}

func (uc *laboratoryUsecase) GetSeries(ctx context.Context, sessionID string, query *requests.LaboratoryQuery) (*models.LabSeries, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("laboratoryUsecase.GetSeries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, query.PatientID),
		zap.String(constvars.LoggingAnalyteKey, query.Analyte),
	)

	analyte, err := reference_ranges.ParseAnalyte(query.Analyte)
	if err != nil {
		return nil, err
	}

	timeline, err := uc.TimelineUsecase.GetTimeline(ctx, sessionID, query.PatientID, query.HistoryVersion)
	if err != nil {
		uc.Log.Error("laboratoryUsecase.GetSeries error calling TimelineUsecase.GetTimeline",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	series, err := BuildSeries(timeline, analyte)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("laboratoryUsecase.GetSeries succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntriesCountKey, len(series.Points)),
		zap.Int(constvars.LoggingFailedCountKey, series.Dropped),
	)
	return series, nil
}
