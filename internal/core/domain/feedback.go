package domain

import "time"

// ReportStatus tracks the handling of a user report.
type ReportStatus string

const (
	ReportOpen       ReportStatus = "OPEN"
	ReportInProgress ReportStatus = "IN_PROGRESS"
	ReportResolved   ReportStatus = "RESOLVED"
	ReportClosed     ReportStatus = "CLOSED"
)

// ParseReportStatus validates s as a known report status.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch st := ReportStatus(s); st {
	case ReportOpen, ReportInProgress, ReportResolved, ReportClosed:
		return st, true
	}
	return "", false
}

type Report struct {
	ID          string       `json:"id" bson:"_id"`
	ReportType  string       `json:"report_type" bson:"report_type"`
	Description string       `json:"description" bson:"description"`
	Status      ReportStatus `json:"status" bson:"status"`
	ReporterID  string       `json:"reporter_id" bson:"reporter_id"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	PlaceID   string    `json:"place_id" bson:"place_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RatingSummary is the aggregate rating of a place.
type RatingSummary struct {
	PlaceID string  `json:"place_id" bson:"_id"`
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}
