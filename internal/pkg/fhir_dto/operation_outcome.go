package fhir_dto

import "strings"

type OperationOutcome struct {
	ResourceType string  `json:"resourceType"`
	Issue        []Issue `json:"issue"`
}

type Issue struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics"`
}

func (o *OperationOutcome) Diagnostics() string {
	messages := make([]string, 0, len(o.Issue))
	for _, issue := range o.Issue {
		if issue.Diagnostics != "" {
			messages = append(messages, issue.Diagnostics)
		}
	}
	return strings.Join(messages, "; ")
}
