package domain

import "time"

// ModerationStatus is the publication state of a listing. There is no
// rejected state; a rejected proposal is deleted.
type ModerationStatus string

const (
	StatusPending ModerationStatus = "PENDING"
	StatusActive  ModerationStatus = "ACTIVE"
)

// Kind names a moderated listing type.
type Kind string

const (
	KindPlace    Kind = "place"
	KindActivity Kind = "activity"
	KindCircuit  Kind = "circuit"
	KindEvent    Kind = "event"
	KindArtisan  Kind = "artisan"
)

// Listing holds the moderation fields shared by every listing kind. It is
// embedded inline in each entity document.
//
// ProposerID stores the owner identity: the user id for places and events,
// the guide profile id for activities, circuits and artisans. It is empty for
// guide-linked entries created by an administrator.
type Listing struct {
	ID         string           `json:"id" bson:"_id"`
	Status     ModerationStatus `json:"status" bson:"status"`
	ProposerID string           `json:"proposer_id,omitempty" bson:"proposer_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" bson:"updated_at"`
}

func (l *Listing) Base() *Listing { return l }

func (l *Listing) IsActive() bool { return l.Status == StatusActive }

// Moderated is implemented by every listing kind through the embedded Listing.
type Moderated interface {
	Base() *Listing
}

type Place struct {
	Listing     `bson:",inline"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	City        string  `json:"city" bson:"city"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
	ImageURL    string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

type Activity struct {
	Listing     `bson:",inline"`
	PlaceID     string  `json:"place_id" bson:"place_id"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Duration    string  `json:"duration" bson:"duration"`
}

type Circuit struct {
	Listing     `bson:",inline"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Duration    string  `json:"duration" bson:"duration"`
	Price       float64 `json:"price" bson:"price"`
}

type Event struct {
	Listing     `bson:",inline"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	StartDate   time.Time `json:"start_date" bson:"start_date"`
	EndDate     time.Time `json:"end_date" bson:"end_date"`
	Location    string    `json:"location" bson:"location"`
}

type Artisan struct {
	Listing    `bson:",inline"`
	Name       string `json:"name" bson:"name"`
	Speciality string `json:"speciality" bson:"speciality"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	City       string `json:"city" bson:"city"`
}
