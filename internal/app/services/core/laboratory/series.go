package laboratory

import (
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/pkg/utils"
	"sort"
)

// BuildSeries classifies the timeline's results for analyte. Entries whose value
// or date cannot be parsed are dropped and counted.
func BuildSeries(timeline *models.Timeline, analyte reference_ranges.Analyte) (*models.LabSeries, error) {
	referenceRange, err := reference_ranges.Range(analyte)
	if err != nil {
		return nil, err
	}

	series := &models.LabSeries{
		PatientID: timeline.PatientID,
		Analyte:   string(analyte),
		Unit:      referenceRange.Unit,
		Points:    []models.LabPoint{},
		Bands:     referenceRange.Bands,
	}

	for _, entry := range timeline.EntriesWithTitle(referenceRange.EntryTitle) {
		value, ok := reference_ranges.ParseNumericValue(entry.Value)
		if !ok {
			series.Dropped++
			continue
		}
		date, err := utils.ParseFHIRDate(entry.Date)
		if err != nil {
			series.Dropped++
			continue
		}
		band, err := reference_ranges.Classify(analyte, value)
		if err != nil {
			series.Dropped++
			continue
		}

		series.Points = append(series.Points, models.LabPoint{
			Date:           entry.Date,
			Time:           date,
			Name:           entry.Name,
			RawValue:       entry.Value,
			Value:          value,
			Band:           band.Label,
			Color:          band.Color,
			Symbol:         band.Symbol,
			Recommendation: band.Recommendation,
		})
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Time.Before(series.Points[j].Time)
	})
	if n := len(series.Points); n > 0 {
		series.LatestRecommendation = series.Points[n-1].Recommendation
	}
	return series, nil
}

// LatestBands maps each analyte with at least one classified point to the
// band of its most recent point.
func LatestBands(timeline *models.Timeline) map[string]string {
	bands := make(map[string]string)
	for _, analyte := range reference_ranges.Analytes() {
		series, err := BuildSeries(timeline, analyte)
		if err != nil || len(series.Points) == 0 {
			continue
		}
		bands[string(analyte)] = series.Points[len(series.Points)-1].Band
	}
	return bands
}
