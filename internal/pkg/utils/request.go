package utils

import (
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func BuildTimelineQuery(r *http.Request) *requests.TimelineQuery {
	query := r.URL.Query()

	var titles []string
	for _, raw := range query[constvars.URLQueryParamTitle] {
		for _, title := range strings.Split(raw, ",") {
			if title = strings.TrimSpace(title); title != "" {
				titles = append(titles, title)
			}
		}
	}

	return &requests.TimelineQuery{
		PatientID:      chi.URLParam(r, constvars.URLParamPatientID),
		HistoryVersion: strings.TrimSpace(query.Get(constvars.URLQueryParamHistoryVersion)),
		From:           strings.TrimSpace(query.Get(constvars.URLQueryParamFrom)),
		To:             strings.TrimSpace(query.Get(constvars.URLQueryParamTo)),
		Titles:         titles,
		Sort:           strings.ToLower(strings.TrimSpace(query.Get(constvars.URLQueryParamSort))),
	}
}

func BuildLaboratoryQuery(r *http.Request) *requests.LaboratoryQuery {
	return &requests.LaboratoryQuery{
		PatientID:      chi.URLParam(r, constvars.URLParamPatientID),
		Analyte:        strings.ToLower(chi.URLParam(r, constvars.URLParamAnalyte)),
		HistoryVersion: strings.TrimSpace(r.URL.Query().Get(constvars.URLQueryParamHistoryVersion)),
	}
}
