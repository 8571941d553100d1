package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// ParseReservationStatus validates s as a known reservation status.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch st := ReservationStatus(s); st {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return st, true
	}
	return "", false
}

// Reservation books exactly one activity or one circuit for a calendar day.
type Reservation struct {
	ID              string            `json:"id" bson:"_id"`
	UserID          string            `json:"user_id" bson:"user_id"`
	ActivityID      string            `json:"activity_id,omitempty" bson:"activity_id,omitempty"`
	CircuitID       string            `json:"circuit_id,omitempty" bson:"circuit_id,omitempty"`
	ReservationDate time.Time         `json:"reservation_date" bson:"reservation_date"`
	Status          ReservationStatus `json:"status" bson:"status"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

// Day truncates t to midnight UTC of its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
