// Package reference_ranges holds the clinical bands for glucose and HbA1c.
// Chart shading, point styling and recommendation text all read the same
// table through Classify and Bands.
package reference_ranges

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
)

type Analyte string

const (
	Glucose Analyte = constvars.AnalyteGlucose
	HbA1c   Analyte = constvars.AnalyteHbA1c
)

// Band styles.
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorGold   = "gold"
	ColorGreen  = "green"

	SymbolStar         = "star"
	SymbolTriangleUp   = "triangle-up"
	SymbolTriangleDown = "triangle-down"
	SymbolSquare       = "square"
)

type ReferenceRange struct {
	Analyte    Analyte
	Code       string
	Unit       string
	EntryTitle string
	Bands      []models.ReferenceBand
}

func bound(v float64) *float64 {
	return &v
}

var referenceRanges = map[Analyte]*ReferenceRange{
	Glucose: {
		Analyte:    Glucose,
		Code:       constvars.LoincGlucoseSerumPlasma,
		Unit:       constvars.UnitGlucose,
		EntryTitle: constvars.TimelineTitleResultsGlucose,
		Bands: []models.ReferenceBand{
			{
				Label: "severe-hypoglycemia", Upper: bound(54),
				Color: ColorRed, Symbol: SymbolStar,
				Recommendation: "Severe hypoglycemia. Treat immediately with fast-acting glucose and review the therapy that caused it.",
			},
			{
				Label: "hypoglycemia-alert", Lower: bound(54), LowerInclusive: true, Upper: bound(70),
				Color: ColorOrange, Symbol: SymbolTriangleDown,
				Recommendation: "Hypoglycemia alert. Take 15 g of fast-acting carbohydrate and recheck in 15 minutes.",
			},
			{
				Label: "below-target", Lower: bound(70), LowerInclusive: true, Upper: bound(80),
				Color: ColorGold, Symbol: SymbolTriangleDown,
				Recommendation: "Slightly below the 80-130 mg/dL target. Consider adjusting meal timing or glucose-lowering medication.",
			},
			{
				Label: "target-range", Lower: bound(80), LowerInclusive: true, Upper: bound(130), UpperInclusive: true,
				Color: ColorGreen, Symbol: SymbolSquare,
				Recommendation: "Within the 80-130 mg/dL target range. Continue the current management plan.",
			},
			{
				Label: "above-target", Lower: bound(130), Upper: bound(180), UpperInclusive: true,
				Color: ColorOrange, Symbol: SymbolTriangleUp,
				Recommendation: "Above target. Review diet, physical activity and medication adherence.",
			},
			{
				Label: "significant-hyperglycemia", Lower: bound(180),
				Color: ColorRed, Symbol: SymbolStar,
				Recommendation: "Significant hyperglycemia. Check for ketones if symptomatic and contact the care team about treatment adjustment.",
			},
		},
	},
	HbA1c: {
		Analyte:    HbA1c,
		Code:       constvars.LoincHemoglobinA1c,
		Unit:       constvars.UnitHbA1c,
		EntryTitle: constvars.TimelineTitleResultsHemoglobinA1c,
		Bands: []models.ReferenceBand{
			{
				Label: "below-strict-target", Upper: bound(6.5),
				Color: ColorGreen, Symbol: SymbolSquare,
				Recommendation: "Below 6.5%. Appropriate when reached without significant hypoglycemia; otherwise relax the target.",
			},
			{
				Label: "strict-target", Lower: bound(6.5), LowerInclusive: true, Upper: bound(7.0),
				Color: ColorGreen, Symbol: SymbolSquare,
				Recommendation: "Within the strict 6.5-7.0% target. Continue the current management plan.",
			},
			{
				Label: "general-target", Lower: bound(7.0), LowerInclusive: true, Upper: bound(8.0),
				Color: ColorOrange, Symbol: SymbolTriangleUp,
				Recommendation: "Within the general 7.0-8.0% target. Acceptable for many adults; consider intensifying therapy where safe.",
			},
			{
				Label: "above-target", Lower: bound(8.0), LowerInclusive: true,
				Color: ColorRed, Symbol: SymbolStar,
				Recommendation: "At or above 8.0%. Review and intensify the treatment plan together with the patient.",
			},
		},
	},
}

func init() {
	for analyte, referenceRange := range referenceRanges {
		if err := validateBands(referenceRange.Bands); err != nil {
			panic(fmt.Sprintf("reference_ranges: %s: %v", analyte, err))
		}
	}
}

// validateBands checks that bands partition the real line in order.
func validateBands(bands []models.ReferenceBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands")
	}
	if bands[0].Lower != nil {
		return fmt.Errorf("first band %q is bounded below", bands[0].Label)
	}
	if last := bands[len(bands)-1]; last.Upper != nil {
		return fmt.Errorf("last band %q is bounded above", last.Label)
	}
	for i := 0; i < len(bands)-1; i++ {
		current, next := bands[i], bands[i+1]
		if current.Upper == nil || next.Lower == nil || *current.Upper != *next.Lower {
			return fmt.Errorf("bands %q and %q are not adjacent", current.Label, next.Label)
		}
		if current.UpperInclusive == next.LowerInclusive {
			return fmt.Errorf("boundary %v between %q and %q must belong to exactly one band", *current.Upper, current.Label, next.Label)
		}
	}
	return nil
}

func ParseAnalyte(value string) (Analyte, error) {
	analyte := Analyte(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := referenceRanges[analyte]; !ok {
		return "", exceptions.ErrUnknownAnalyte(nil, value)
	}
	return analyte, nil
}

func Analytes() []Analyte {
	return []Analyte{Glucose, HbA1c}
}

// Classify returns the single band containing value.
func Classify(analyte Analyte, value float64) (models.ReferenceBand, error) {
	referenceRange, ok := referenceRanges[analyte]
	if !ok {
		return models.ReferenceBand{}, exceptions.ErrUnknownAnalyte(nil, string(analyte))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return models.ReferenceBand{}, exceptions.ErrNonFiniteValue(nil, value)
	}
	for _, band := range referenceRange.Bands {
		if band.Contains(value) {
			return cloneBand(band), nil
		}
	}
	// unreachable while init validation holds
	return models.ReferenceBand{}, exceptions.ErrNonFiniteValue(nil, value)
}

// Bands returns a copy of the ordered bands for analyte.
func Bands(analyte Analyte) ([]models.ReferenceBand, error) {
	referenceRange, ok := referenceRanges[analyte]
	if !ok {
		return nil, exceptions.ErrUnknownAnalyte(nil, string(analyte))
	}
	bands := make([]models.ReferenceBand, 0, len(referenceRange.Bands))
	for _, band := range referenceRange.Bands {
		bands = append(bands, cloneBand(band))
	}
	return bands, nil
}

func Range(analyte Analyte) (ReferenceRange, error) {
	referenceRange, ok := referenceRanges[analyte]
	if !ok {
		return ReferenceRange{}, exceptions.ErrUnknownAnalyte(nil, string(analyte))
	}
	bands, _ := Bands(analyte)
	copied := *referenceRange
	copied.Bands = bands
	return copied, nil
}

func cloneBand(band models.ReferenceBand) models.ReferenceBand {
	if band.Lower != nil {
		band.Lower = bound(*band.Lower)
	}
	if band.Upper != nil {
		band.Upper = bound(*band.Upper)
	}
	return band
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// ParseNumericValue extracts the leading number of a "<number> <unit>" value.
// Comparator prefixes such as "<" or ">=" are not numbers and fail.
func ParseNumericValue(value string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(value))
	if match == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

// AnalyteForCode maps a LOINC observation code to its analyte.
func AnalyteForCode(code string) (Analyte, bool) {
	for _, analyte := range Analytes() {
		if referenceRanges[analyte].Code == code {
			return analyte, true
		}
	}
	return "", false
}
