package reference_ranges

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/dto/responses"
	"ips-timeline-service/internal/pkg/exceptions"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type referenceRangeUsecase struct {
	Log *zap.Logger
}

func NewReferenceRangeUsecase(logger *zap.Logger) contracts.ReferenceRangeUsecase {
	return &referenceRangeUsecase{Log: logger}
}

func (uc *referenceRangeUsecase) FindAll(ctx context.Context) ([]responses.ReferenceRange, error) {
	result := make([]responses.ReferenceRange, 0, len(Analytes()))
	for _, analyte := range Analytes() {
		referenceRange, err := uc.FindByAnalyte(ctx, string(analyte))
		if err != nil {
			return nil, err
		}
		result = append(result, *referenceRange)
	}
	return result, nil
}

func (uc *referenceRangeUsecase) FindByAnalyte(ctx context.Context, analyte string) (*responses.ReferenceRange, error) {
	parsed, err := ParseAnalyte(analyte)
	if err != nil {
		return nil, err
	}
	referenceRange, err := Range(parsed)
	if err != nil {
		return nil, err
	}
	return &responses.ReferenceRange{
		Analyte: string(referenceRange.Analyte),
		Code:    referenceRange.Code,
		Unit:    referenceRange.Unit,
		Bands:   referenceRange.Bands,
	}, nil
}

// Classify accepts the value as a JSON number or as a "<number> <unit>" string.
func (uc *referenceRangeUsecase) Classify(ctx context.Context, analyte string, request *requests.ClassifyValue) (*responses.Classification, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("referenceRangeUsecase.Classify called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalyteKey, analyte),
	)

	parsed, err := ParseAnalyte(analyte)
	if err != nil {
		return nil, err
	}
	value, err := decodeValue(request.Value)
	if err != nil {
		return nil, err
	}

	band, err := Classify(parsed, value)
	if err != nil {
		return nil, err
	}
	referenceRange, _ := Range(parsed)

	uc.Log.Info("referenceRangeUsecase.Classify succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAnalyteKey, analyte),
	)
	return &responses.Classification{
		Analyte:        string(parsed),
		Value:          value,
		Unit:           referenceRange.Unit,
		Label:          band.Label,
		Color:          band.Color,
		Symbol:         band.Symbol,
		Recommendation: band.Recommendation,
	}, nil
}

func decodeValue(raw json.RawMessage) (float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, exceptions.ErrCannotParseJSON(err)
		}
		value, ok := ParseNumericValue(text)
		if !ok {
			return 0, exceptions.ErrNotNumericValue(nil, strconv.Quote(text))
		}
		return value, nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, exceptions.ErrNotNumericValue(err, trimmed)
	}
	return value, nil
}
