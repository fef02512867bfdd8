package fhir_dto

import "ips-timeline-service/internal/pkg/accessor"

type FHIRBundle struct {
	ResourceType string  `json:"resourceType"`
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Total        int     `json:"total"`
	Entry        []Entry `json:"entry"`
}

type Entry struct {
	FullURL  string        `json:"fullUrl,omitempty"`
	Resource accessor.Node `json:"resource"`
}

// ResourcesOfType returns entry resources whose resourceType matches.
func (b *FHIRBundle) ResourcesOfType(resourceType string) []accessor.Node {
	var resources []accessor.Node
	for _, entry := range b.Entry {
		if entry.Resource.Get("resourceType").String("") == resourceType {
			resources = append(resources, entry.Resource)
		}
	}
	return resources
}
