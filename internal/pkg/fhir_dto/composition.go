package fhir_dto

import "ips-timeline-service/internal/pkg/accessor"

// CompositionDocument is a fetched IPS Composition along with the version
// that was actually served.
type CompositionDocument struct {
	ID              string
	VersionID       string
	HistoryFallback bool
	Resource        accessor.Node
}

func NewCompositionDocument(resource accessor.Node) *CompositionDocument {
	return &CompositionDocument{
		ID:        resource.Get("id").String(""),
		VersionID: resource.Get("meta", "versionId").String(""),
		Resource:  resource,
	}
}

func (d *CompositionDocument) Sections() []accessor.Node {
	return d.Resource.Get("section").Items()
}
