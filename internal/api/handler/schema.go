package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Identity ---

type registerRequest struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	Phone     string `json:"phone"`
	Role      string `json:"role"      validate:"omitempty,oneof=TOURIST GUIDE tourist guide"`
	Bio       string `json:"bio"`
	Languages string `json:"languages"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type guideProfileRequest struct {
	Bio       string `json:"bio"`
	Languages string `json:"languages"`
}

type accountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// --- Listings ---

type placeRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	City        string  `json:"city"        validate:"required"`
	Latitude    float64 `json:"latitude"    validate:"latitude"`
	Longitude   float64 `json:"longitude"   validate:"longitude"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
}

type activityRequest struct {
	PlaceID     string  `json:"place_id"    validate:"required"`
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Duration    string  `json:"duration"`
}

type circuitRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"       validate:"gte=0"`
}

type eventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"  validate:"required"`
	EndDate     time.Time `json:"end_date"    validate:"required"`
	Location    string    `json:"location"`
}

type artisanRequest struct {
	Name       string `json:"name"       validate:"required"`
	Speciality string `json:"speciality" validate:"required"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
}

// --- Reservations ---

type reservationRequest struct {
	ActivityID      string `json:"activity_id"`
	CircuitID       string `json:"circuit_id"`
	ReservationDate string `json:"reservation_date" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Feedback ---

type reportRequest struct {
	ReportType  string `json:"report_type" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type reviewRequest struct {
	PlaceID string `json:"place_id" validate:"required"`
	Rating  int    `json:"rating"   validate:"required"`
	Comment string `json:"comment"`
}

type reviewUpdateRequest struct {
	Rating  int    `json:"rating"  validate:"required"`
	Comment string `json:"comment"`
}
