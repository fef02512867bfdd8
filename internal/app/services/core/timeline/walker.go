package timeline

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"strings"

	"go.uber.org/zap"
)

// walker builds timelines by resolving Composition section entries one at a
// time in document order.
type walker struct {
	CompositionFhirClient      contracts.CompositionFhirClient
	ClinicalResourceFhirClient contracts.ClinicalResourceFhirClient
	Log                        *zap.Logger
}

func NewWalker(
	compositionFhirClient contracts.CompositionFhirClient,
	clinicalResourceFhirClient contracts.ClinicalResourceFhirClient,
	logger *zap.Logger,
) contracts.TimelineBuilder {
	return &walker{
		CompositionFhirClient:      compositionFhirClient,
		ClinicalResourceFhirClient: clinicalResourceFhirClient,
		Log:                        logger,
	}
}

func (w *walker) BuildTimeline(ctx context.Context, patientID, historyVersion string) (*models.Timeline, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	w.Log.Info("walker.BuildTimeline called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingHistoryVersionKey, historyVersion),
	)

	document, err := w.CompositionFhirClient.FetchComposition(ctx, patientID, historyVersion)
	if err != nil {
		w.Log.Error("walker.BuildTimeline error fetching composition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCompositionNotFound(err, patientID)
	}

	timeline := &models.Timeline{
		PatientID:       patientID,
		CompositionID:   document.ID,
		VersionID:       document.VersionID,
		HistoryFallback: document.HistoryFallback,
	}
	acc := NewAccumulator(w.Log, requestID)

	for _, section := range document.Sections() {
		definition, ok := ResolveSection(section)
		if !ok {
			w.Log.Debug("walker.BuildTimeline skipping unrecognised section",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSectionKey, section.Get("title").String("")),
			)
			continue
		}

		for _, entry := range section.Get("entry").Items() {
			if err := ctx.Err(); err != nil {
				return nil, exceptions.ErrServerDeadlineExceeded(err)
			}

			reference := strings.TrimSpace(entry.Get("reference").String(""))
			if reference == "" {
				timeline.Stats.Skipped++
				continue
			}

			resource, err := w.ClinicalResourceFhirClient.FindResourceByReference(ctx, reference)
			if err != nil {
				timeline.Stats.Failed++
				w.Log.Warn("walker.BuildTimeline skipping unresolved reference",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingCategoryKey, definition.Category.String()),
					zap.String(constvars.LoggingReferenceKey, reference),
					zap.Error(err),
				)
				continue
			}

			timeline.Stats.Resolved++
			definition.Extractor(acc, resource)
		}
	}

	timeline.Entries = acc.Entries()
	timeline.Unscheduled = acc.Unscheduled()
	if timeline.Entries == nil {
		timeline.Entries = []models.TimelineEntry{}
	}
	if timeline.Unscheduled == nil {
		timeline.Unscheduled = []models.TimelineEntry{}
	}

	w.Log.Info("walker.BuildTimeline succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, timeline.CompositionID),
		zap.Int(constvars.LoggingEntriesCountKey, len(timeline.Entries)),
		zap.Int(constvars.LoggingFailedCountKey, timeline.Stats.Failed),
	)
	return timeline, nil
}
