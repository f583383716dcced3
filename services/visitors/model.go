package visitors

import "time"

// Visit is a single page view reported by the public site.
type Visit struct {
	UID       string
	Path      string
	Referrer  string
	UserAgent string `datastore:",noindex"`
	CreatedAt time.Time
}

type visitRequest struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

type VisitSummary struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}
