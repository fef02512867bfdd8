package contracts

import (
	"context"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/dto/responses"
)

type TimelineBuilder interface {
	BuildTimeline(ctx context.Context, patientID, historyVersion string) (*models.Timeline, error)
}

type TimelineUsecase interface {
	GetTimeline(ctx context.Context, sessionID, patientID, historyVersion string) (*models.Timeline, error)
	GetFilteredTimeline(ctx context.Context, sessionID string, query *requests.TimelineQuery) (*models.Timeline, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type LaboratoryUsecase interface {
	GetSeries(ctx context.Context, sessionID string, query *requests.LaboratoryQuery) (*models.LabSeries, error)
}

type CompositionUsecase interface {
	AttachEntry(ctx context.Context, patientID string, request *requests.AttachEntry) (*responses.AttachEntry, error)
	DetachReference(ctx context.Context, reference string) (*responses.DetachReference, error)
}

type TimelineEventPublisher interface {
	PublishTimelineBuilt(ctx context.Context, event *models.TimelineBuiltEvent) error
}
