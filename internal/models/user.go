// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is owned by the auth subsystem; the marketplace only reads its
// identity and public profile.
type User struct {
	BaseModel
	Name            string `json:"name" gorm:"size:100;not null"`
	Email           string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	ProfileImageURL string `json:"profileImageUrl" gorm:"type:text"`
	PasswordHash    string `json:"-" gorm:"size:255;not null"`
}

// PublicProfile is the subset of a user safe to show to other users.
type PublicProfile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:              u.ID.String(),
		Name:            u.Name,
		ProfileImageURL: u.ProfileImageURL,
	}
}
