package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseReference splits a FHIR literal reference into resource type and id.
// Relative ("Observation/abc"), versioned ("Observation/abc/_history/2")
// and absolute URL forms are accepted.
func ParseReference(reference string) (resourceType, id string, err error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", "", fmt.Errorf("empty reference")
	}

	path := reference
	if strings.Contains(reference, "://") {
		parsed, parseErr := url.Parse(reference)
		if parseErr != nil {
			return "", "", parseErr
		}
		path = parsed.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if n := len(segments); n >= 4 && segments[n-2] == "_history" {
		segments = segments[:n-2]
	}
	if len(segments) < 2 {
		return "", "", fmt.Errorf("reference %q has no resource type", reference)
	}

	resourceType = segments[len(segments)-2]
	id = segments[len(segments)-1]
	if resourceType == "" || id == "" || !isResourceTypeName(resourceType) {
		return "", "", fmt.Errorf("reference %q is malformed", reference)
	}
	return resourceType, id, nil
}

// NormalizeReference returns the canonical "Type/id" form of reference.
func NormalizeReference(reference string) (string, error) {
	resourceType, id, err := ParseReference(reference)
	if err != nil {
		return "", err
	}
	return resourceType + "/" + id, nil
}

func isResourceTypeName(name string) bool {
	if name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}
