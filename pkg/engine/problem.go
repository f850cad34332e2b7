package engine

import (
	"encoding/json"
	"net/http"
)

// Problem is the HTTP response body for a rejected Decision, following
// RFC 7807 Problem Details.
type Problem struct {
	// Type identifies the rejection kind.
	Type string `json:"type"`

	// Title is a short summary of the rejection.
	Title string `json:"title"`

	// Status is the HTTP status code.
	Status int `json:"status"`

	// Detail is the human-readable message from the Decision.
	Detail string `json:"detail,omitempty"`

	// Instance correlates the response with the server-side log entry.
	Instance string `json:"instance,omitempty"`
}

var problemTitles = map[RejectKind]string{
	KindNotFound:             "Not Found",
	KindMethodNotAllowed:     "Method Not Allowed",
	KindMissingBody:          "Missing Request Body",
	KindMissingContentType:   "Missing Content-Type",
	KindUnsupportedMediaType: "Unsupported Media Type",
	KindMalformedBody:        "Malformed Request Body",
}

// NewProblem builds a Problem from a rejected Decision. instance may be
// empty.
func NewProblem(d Decision, instance string) *Problem {
	title := problemTitles[d.Kind]
	if title == "" {
		title = "Request Validation Failed"
	}
	return &Problem{
		Type:     string(d.Kind),
		Title:    title,
		Status:   d.Status(),
		Detail:   d.Message,
		Instance: instance,
	}
}

// Write sends the problem as application/problem+json.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
