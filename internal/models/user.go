package models

// User is the locally stored customer profile.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email,omitempty"`
	Points       int     `json:"points"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// UserUpdate carries a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	ID           *string `json:"id,omitempty"`
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Points       *int    `json:"points,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}
