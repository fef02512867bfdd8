package compositions

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/services/fhir_spark/fhirhttp"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/fhir_dto"
	"net/url"

	"go.uber.org/zap"
)

type compositionFhirClient struct {
	Requester *fhirhttp.Requester
	Log       *zap.Logger
}

func NewCompositionFhirClient(requester *fhirhttp.Requester, logger *zap.Logger) contracts.CompositionFhirClient {
	return &compositionFhirClient{
		Requester: requester,
		Log:       logger,
	}
}

// FindCompositionByPatientID returns the first Composition of the patient's
// searchset. Only the first page is read.
func (c *compositionFhirClient) FindCompositionByPatientID(ctx context.Context, patientID string) (*fhir_dto.CompositionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("compositionFhirClient.FindCompositionByPatientID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	query := url.Values{constvars.FhirSearchParamPatient: {patientID}}
	bundle := new(fhir_dto.FHIRBundle)
	err := c.Requester.Get(ctx, c.Requester.URL(query, constvars.ResourceComposition), constvars.ResourceComposition, bundle)
	if err != nil {
		c.Log.Error("compositionFhirClient.FindCompositionByPatientID error fetching searchset",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	compositions := bundle.ResourcesOfType(constvars.ResourceComposition)
	if len(compositions) == 0 {
		c.Log.Info("compositionFhirClient.FindCompositionByPatientID no composition in searchset",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		return nil, exceptions.ErrNoDataFHIRResource(nil, constvars.ResourceComposition)
	}

	document := fhir_dto.NewCompositionDocument(compositions[0])
	c.Log.Info("compositionFhirClient.FindCompositionByPatientID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, document.ID),
	)
	return document, nil
}

func (c *compositionFhirClient) FindCompositionHistory(ctx context.Context, compositionID, versionID string) (*fhir_dto.CompositionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("compositionFhirClient.FindCompositionHistory called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, compositionID),
		zap.String(constvars.LoggingHistoryVersionKey, versionID),
	)

	var resource accessor.Node
	target := c.Requester.URL(nil, constvars.ResourceComposition, compositionID, constvars.FhirHistorySegment, versionID)
	if err := c.Requester.Get(ctx, target, constvars.ResourceComposition, &resource); err != nil {
		return nil, err
	}
	if resource.Get("resourceType").String("") != constvars.ResourceComposition {
		return nil, exceptions.ErrNoDataFHIRResource(nil, constvars.ResourceComposition)
	}

	document := fhir_dto.NewCompositionDocument(resource)
	if document.VersionID == "" {
		document.VersionID = versionID
	}
	return document, nil
}

func (c *compositionFhirClient) FindCompositions(ctx context.Context) ([]*fhir_dto.CompositionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("compositionFhirClient.FindCompositions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	bundle := new(fhir_dto.FHIRBundle)
	if err := c.Requester.Get(ctx, c.Requester.URL(nil, constvars.ResourceComposition), constvars.ResourceComposition, bundle); err != nil {
		return nil, err
	}

	resources := bundle.ResourcesOfType(constvars.ResourceComposition)
	documents := make([]*fhir_dto.CompositionDocument, 0, len(resources))
	for _, resource := range resources {
		documents = append(documents, fhir_dto.NewCompositionDocument(resource))
	}
	return documents, nil
}

func (c *compositionFhirClient) UpdateComposition(ctx context.Context, compositionID string, resource map[string]interface{}) (*fhir_dto.CompositionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("compositionFhirClient.UpdateComposition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, compositionID),
	)

	var updated accessor.Node
	target := c.Requester.URL(nil, constvars.ResourceComposition, compositionID)
	if err := c.Requester.Put(ctx, target, constvars.ResourceComposition, resource, &updated); err != nil {
		return nil, err
	}
	if updated.IsMissing() {
		updated = accessor.Wrap(resource)
	}

	c.Log.Info("compositionFhirClient.UpdateComposition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, compositionID),
	)
	return fhir_dto.NewCompositionDocument(updated), nil
}

// FetchComposition returns the patient's Composition, pinned to
// historyVersion when one is given. A failed history read falls back to the
// current revision.
func (c *compositionFhirClient) FetchComposition(ctx context.Context, patientID, historyVersion string) (*fhir_dto.CompositionDocument, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	current, err := c.FindCompositionByPatientID(ctx, patientID)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode != constvars.StatusNotFound {
			c.Log.Error("compositionFhirClient.FetchComposition current composition unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Error(err),
			)
		}
		return nil, exceptions.ErrCompositionNotFound(err, patientID)
	}

	if historyVersion == "" || historyVersion == current.VersionID {
		return current, nil
	}
	if current.ID == "" {
		c.Log.Warn("compositionFhirClient.FetchComposition composition has no id, using current revision",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		current.HistoryFallback = true
		return current, nil
	}

	pinned, err := c.FindCompositionHistory(ctx, current.ID, historyVersion)
	if err != nil {
		c.Log.Warn("compositionFhirClient.FetchComposition history fetch failed, falling back to current revision",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCompositionIDKey, current.ID),
			zap.String(constvars.LoggingHistoryVersionKey, historyVersion),
			zap.Error(err),
		)
		current.HistoryFallback = true
		return current, nil
	}
	return pinned, nil
}
