package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User defines a user entity
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Age         int       `json:"age,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserFromDoc shapes a raw user document into a User, defaulting missing fields
func UserFromDoc(id string, doc bson.M) User {
	role := docString(doc, "role")
	if role == "" {
		role = RoleUser
	}
	return User{
		ID:          id,
		Email:       docString(doc, "email"),
		FirstName:   docString(doc, "firstName"),
		LastName:    docString(doc, "lastName"),
		Age:         docInt(doc, "age"),
		Gender:      docString(doc, "gender"),
		PhoneNumber: docString(doc, "phoneNumber"),
		Interests:   docStrings(doc, "interests"),
		Bio:         docString(doc, "bio"),
		Role:        role,
		CreatedAt:   docTime(doc, "createdAt"),
		UpdatedAt:   docTime(doc, "updatedAt"),
	}
}

// DisplayName returns "First Last", falling back to the email address
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown User"
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserUpdate is a partial user edit; nil fields are left untouched
type UserUpdate struct {
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	Age         *int      `json:"age"`
	Gender      *string   `json:"gender"`
	PhoneNumber *string   `json:"phoneNumber"`
	Interests   *[]string `json:"interests"`
	Bio         *string   `json:"bio"`
	Role        *string   `json:"role"`
}
