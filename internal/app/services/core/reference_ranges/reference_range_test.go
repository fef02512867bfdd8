package reference_ranges

import (
	"math"
	"math/rand"
	"testing"

	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_GlucoseBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		label string
	}{
		{value: 53.9, label: "severe-hypoglycemia"},
		{value: 54, label: "hypoglycemia-alert"},
		{value: 69.9, label: "hypoglycemia-alert"},
		{value: 70, label: "below-target"},
		{value: 79.9, label: "below-target"},
		{value: 80, label: "target-range"},
		{value: 130, label: "target-range"},
		{value: 130.1, label: "above-target"},
		{value: 180, label: "above-target"},
		{value: 180.1, label: "significant-hyperglycemia"},
	}

	for _, tt := range tests {
		band, err := Classify(Glucose, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.label, band.Label, "value %v", tt.value)
	}
}

func TestClassify_GlucoseAdjacentBoundariesDiffer(t *testing.T) {
	pairs := [][2]float64{{53.9, 54}, {69.9, 70}, {79.9, 80}, {130, 130.1}, {180, 180.1}}
	for _, pair := range pairs {
		low, err := Classify(Glucose, pair[0])
		require.NoError(t, err)
		high, err := Classify(Glucose, pair[1])
		require.NoError(t, err)
		assert.NotEqual(t, low.Label, high.Label, "values %v and %v", pair[0], pair[1])
	}
}

func TestClassify_HbA1cBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		label string
	}{
		{value: 6.4, label: "below-strict-target"},
		{value: 6.5, label: "strict-target"},
		{value: 6.99, label: "strict-target"},
		{value: 7, label: "general-target"},
		{value: 7.99, label: "general-target"},
		{value: 8, label: "above-target"},
		{value: 14.2, label: "above-target"},
	}

	for _, tt := range tests {
		band, err := Classify(HbA1c, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.label, band.Label, "value %v", tt.value)
	}
}

func TestClassify_ConcreteGlucoseReading(t *testing.T) {
	band, err := Classify(Glucose, 135)
	require.NoError(t, err)
	assert.Equal(t, "above-target", band.Label)
	assert.Equal(t, ColorOrange, band.Color)
	assert.Equal(t, SymbolTriangleUp, band.Symbol)
	assert.NotEmpty(t, band.Recommendation)
}

func countContaining(bands []models.ReferenceBand, value float64) int {
	count := 0
	for _, band := range bands {
		if band.Contains(value) {
			count++
		}
	}
	return count
}

func TestClassify_Totality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	extremes := []float64{
		0, -0.0, -1, -math.MaxFloat64, math.MaxFloat64,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
	}

	for _, analyte := range Analytes() {
		bands, err := Bands(analyte)
		require.NoError(t, err)

		values := append([]float64{}, extremes...)
		for _, band := range bands {
			if band.Lower != nil {
				values = append(values, *band.Lower, math.Nextafter(*band.Lower, math.Inf(-1)))
			}
			if band.Upper != nil {
				values = append(values, *band.Upper, math.Nextafter(*band.Upper, math.Inf(1)))
			}
		}
		for i := 0; i < 5000; i++ {
			values = append(values, (rng.Float64()-0.5)*1000)
		}

		for _, value := range values {
			assert.Equal(t, 1, countContaining(bands, value), "%s value %v", analyte, value)
			_, err := Classify(analyte, value)
			assert.NoError(t, err, "%s value %v", analyte, value)
		}
	}
}

func FuzzClassify(f *testing.F) {
	for _, seed := range []float64{0, 54, 70, 80, 130, 180, 6.5, 7, 8, -12.5} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, value float64) {
		for _, analyte := range Analytes() {
			band, err := Classify(analyte, value)
			if math.IsNaN(value) || math.IsInf(value, 0) {
				if err == nil {
					t.Fatalf("%s: expected error for %v", analyte, value)
				}
				continue
			}
			if err != nil {
				t.Fatalf("%s: unexpected error for %v: %v", analyte, value, err)
			}
			if !band.Contains(value) {
				t.Fatalf("%s: band %q does not contain %v", analyte, band.Label, value)
			}
		}
	})
}

func TestClassify_Errors(t *testing.T) {
	t.Run("non finite values", func(t *testing.T) {
		for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := Classify(Glucose, value)
			require.Error(t, err)
			assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		}
	})

	t.Run("unknown analyte", func(t *testing.T) {
		_, err := Classify(Analyte("cholesterol"), 100)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
	})
}

func TestParseAnalyte(t *testing.T) {
	analyte, err := ParseAnalyte(" HbA1c ")
	require.NoError(t, err)
	assert.Equal(t, HbA1c, analyte)

	_, err = ParseAnalyte("ldl")
	assert.Error(t, err)
}

func TestParseNumericValue(t *testing.T) {
	tests := []struct {
		input string
		value float64
		ok    bool
	}{
		{input: "135 mg/dL", value: 135, ok: true},
		{input: "7.10 %", value: 7.1, ok: true},
		{input: "-2.5 mmol/L", value: -2.5, ok: true},
		{input: ".5", value: 0.5, ok: true},
		{input: "1e2 mg/dL", value: 100, ok: true},
		{input: "abc", ok: false},
		{input: "<5", ok: false},
		{input: "", ok: false},
		{input: constvars.PlaceholderNoValue, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := ParseNumericValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.value, value, 1e-9)
			}
		})
	}
}

func TestAnalyteForCode(t *testing.T) {
	analyte, ok := AnalyteForCode(constvars.LoincGlucoseSerumPlasma)
	assert.True(t, ok)
	assert.Equal(t, Glucose, analyte)

	analyte, ok = AnalyteForCode(constvars.LoincHemoglobinA1c)
	assert.True(t, ok)
	assert.Equal(t, HbA1c, analyte)

	_, ok = AnalyteForCode("0000-0")
	assert.False(t, ok)
}

func TestBands_ReturnsIndependentCopies(t *testing.T) {
	first, err := Bands(Glucose)
	require.NoError(t, err)
	*first[0].Upper = 1000
	first[1].Label = "changed"

	second, err := Bands(Glucose)
	require.NoError(t, err)
	assert.Equal(t, 54.0, *second[0].Upper)
	assert.Equal(t, "hypoglycemia-alert", second[1].Label)

	band, err := Classify(Glucose, 60)
	require.NoError(t, err)
	assert.Equal(t, "hypoglycemia-alert", band.Label)
}

func TestValidateBands_RejectsGapsAndOverlaps(t *testing.T) {
	gap := []models.ReferenceBand{
		{Label: "low", Upper: bound(10)},
		{Label: "high", Lower: bound(11), LowerInclusive: true},
	}
	assert.Error(t, validateBands(gap))

	overlap := []models.ReferenceBand{
		{Label: "low", Upper: bound(10), UpperInclusive: true},
		{Label: "high", Lower: bound(10), LowerInclusive: true},
	}
	assert.Error(t, validateBands(overlap))

	assert.Error(t, validateBands(nil))
}
