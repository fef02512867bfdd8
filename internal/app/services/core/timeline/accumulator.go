package timeline

import (
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// Accumulator collects the entries of one build. It has a single writer and
// is not safe for concurrent use.
type Accumulator struct {
	entries     []models.TimelineEntry
	unscheduled []models.TimelineEntry
	log         *zap.Logger
	requestID   string
}

func NewAccumulator(logger *zap.Logger, requestID string) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accumulator{log: logger, requestID: requestID}
}

// Add appends entry. Entries without a parseable date are kept apart so the
// dated list stays sortable.
func (a *Accumulator) Add(entry models.TimelineEntry) {
	entry.Date = strings.TrimSpace(entry.Date)
	if entry.Date == "" {
		a.unscheduled = append(a.unscheduled, entry)
		return
	}
	if _, err := utils.ParseFHIRDate(entry.Date); err != nil {
		a.unscheduled = append(a.unscheduled, entry)
		return
	}
	a.entries = append(a.entries, entry)
}

func (a *Accumulator) Entries() []models.TimelineEntry {
	return a.entries
}

func (a *Accumulator) Unscheduled() []models.TimelineEntry {
	return a.unscheduled
}

func (a *Accumulator) Logger() *zap.Logger {
	return a.log
}
