package domain

import "time"

// Role is the authorization role of an actor.
type Role string

const (
	RoleTourist Role = "TOURIST"
	RoleGuide   Role = "GUIDE"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole validates s as a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleTourist, RoleGuide, RoleAdmin:
		return r, true
	}
	return "", false
}

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountPending   AccountStatus = "PENDING"
)

// User models an authenticated actor.
type User struct {
	ID           string        `json:"id" bson:"_id"`
	FullName     string        `json:"full_name" bson:"full_name"`
	Email        string        `json:"email" bson:"email"`
	PasswordHash string        `json:"-" bson:"password_hash"`
	Phone        string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         Role          `json:"role" bson:"role"`
	Status       AccountStatus `json:"status" bson:"status"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// GuideProfile is the one-to-one extension of a GUIDE account. Guide-linked
// listings record the profile id, not the user id, as their proposer.
type GuideProfile struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Bio       string    `json:"bio" bson:"bio"`
	Languages string    `json:"languages" bson:"languages"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
