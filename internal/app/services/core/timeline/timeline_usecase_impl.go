package timeline

import (
	"context"
	"fmt"
	"ips-timeline-service/internal/app/config"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/app/services/core/laboratory"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionLockExpiration = 30 * time.Second

type timelineUsecase struct {
	Builder        contracts.TimelineBuilder
	SessionStore   contracts.SessionStore
	Locker         contracts.LockerService
	Publisher      contracts.TimelineEventPublisher
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
	now            func() time.Time
}

// NewTimelineUsecase wires the session cache around builder. locker may be nil
// when sessions live in process memory.
func NewTimelineUsecase(
	builder contracts.TimelineBuilder,
	sessionStore contracts.SessionStore,
	locker contracts.LockerService,
	publisher contracts.TimelineEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.TimelineUsecase {
	return &timelineUsecase{
		Builder:        builder,
		SessionStore:   sessionStore,
		Locker:         locker,
		Publisher:      publisher,
		InternalConfig: internalConfig,
		Log:            logger,
		now:            time.Now,
	}
}

func (uc *timelineUsecase) GetTimeline(ctx context.Context, sessionID, patientID, historyVersion string) (*models.Timeline, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if historyVersion == "" {
		historyVersion = uc.InternalConfig.DefaultHistoryVersion()
	}
	uc.Log.Info("timelineUsecase.GetTimeline called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingHistoryVersionKey, historyVersion),
	)

	session, err := uc.SessionStore.Get(ctx, sessionID)
	if err != nil {
		uc.Log.Error("timelineUsecase.GetTimeline error calling SessionStore.Get",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if session.Holds(patientID, historyVersion) {
		uc.Log.Info("timelineUsecase.GetTimeline served from session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
		)
		return session.Timeline, nil
	}

	save := true
	if uc.Locker != nil {
		lockKey := fmt.Sprintf(constvars.SessionLockKeyFormat, sessionID)
		acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, sessionLockExpiration)
		switch {
		case err != nil:
			uc.Log.Warn("timelineUsecase.GetTimeline lock unavailable, building without caching",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			save = false
		case !acquired:
			save = false
		default:
			defer func() {
				if err := uc.Locker.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
					uc.Log.Warn("timelineUsecase.GetTimeline error releasing session lock",
						zap.String(constvars.LoggingRequestIDKey, requestID),
						zap.Error(err),
					)
				}
			}()
		}
	}

	timeline, err := uc.Builder.BuildTimeline(ctx, patientID, historyVersion)
	if err != nil {
		uc.Log.Error("timelineUsecase.GetTimeline error calling Builder.BuildTimeline",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if save {
		if err := uc.saveSession(ctx, session, sessionID, patientID, historyVersion, timeline); err != nil {
			return nil, err
		}
	}

	uc.publishBuilt(ctx, timeline)

	uc.Log.Info("timelineUsecase.GetTimeline succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntriesCountKey, len(timeline.Entries)),
	)
	return timeline, nil
}

func (uc *timelineUsecase) saveSession(ctx context.Context, previous *models.Session, sessionID, patientID, historyVersion string, timeline *models.Timeline) error {
	now := uc.now()
	session := &models.Session{
		SessionID:      sessionID,
		PatientID:      patientID,
		HistoryVersion: historyVersion,
		Timeline:       timeline,
		ExpiresAt:      now.Add(time.Duration(uc.InternalConfig.Session.TTLInMinutes) * time.Minute),
	}
	if previous != nil {
		session.TimeModel = previous.TimeModel
		session.SetUpdatedAt(now)
	} else {
		session.SetCreatedAtUpdatedAt(now)
	}
	return uc.SessionStore.Save(ctx, session)
}

func (uc *timelineUsecase) publishBuilt(ctx context.Context, timeline *models.Timeline) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	event := &models.TimelineBuiltEvent{
		EventID:          uuid.NewString(),
		EventType:        constvars.TimelineEventTypeBuilt,
		OccurredAt:       uc.now().UTC(),
		PatientID:        timeline.PatientID,
		CompositionID:    timeline.CompositionID,
		VersionID:        timeline.VersionID,
		HistoryFallback:  timeline.HistoryFallback,
		EntryCount:       len(timeline.Entries),
		UnscheduledCount: len(timeline.Unscheduled),
		FailedCount:      timeline.Stats.Failed,
		LatestBands:      laboratory.LatestBands(timeline),
	}
	if err := uc.Publisher.PublishTimelineBuilt(ctx, event); err != nil {
		uc.Log.Warn("timelineUsecase.publishBuilt error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventIDKey, event.EventID),
			zap.Error(err),
		)
	}
}

func (uc *timelineUsecase) GetFilteredTimeline(ctx context.Context, sessionID string, query *requests.TimelineQuery) (*models.Timeline, error) {
	var from, to time.Time
	var err error
	if query.From != "" {
		if from, err = utils.ParseDateFilter(query.From, false); err != nil {
			return nil, exceptions.ErrInvalidDateFilter(err, constvars.URLQueryParamFrom)
		}
	}
	if query.To != "" {
		if to, err = utils.ParseDateFilter(query.To, true); err != nil {
			return nil, exceptions.ErrInvalidDateFilter(err, constvars.URLQueryParamTo)
		}
	}

	timeline, err := uc.GetTimeline(ctx, sessionID, query.PatientID, query.HistoryVersion)
	if err != nil {
		return nil, err
	}

	filtered := *timeline
	filtered.Entries = FilterTimeline(timeline.Entries, from, to, query.Titles)
	filtered.Unscheduled = FilterTimeline(timeline.Unscheduled, from, to, query.Titles)
	if query.SortByDate() {
		filtered.Entries = SortByDate(filtered.Entries)
	}
	return &filtered, nil
}

func (uc *timelineUsecase) ResetSession(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("timelineUsecase.ResetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return uc.SessionStore.Delete(ctx, sessionID)
}
