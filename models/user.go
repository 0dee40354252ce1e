package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User is a platform account. Accounts are never hard-deleted.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password             string             `bson:"password,omitempty" json:"-"`
	Role                 Role               `bson:"role" json:"role"`
	IsVerified           bool               `bson:"isVerified" json:"isVerified"`
	VerificationToken    string             `bson:"verificationToken,omitempty" json:"-"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// ResetTokenValid reports whether token matches an unexpired reset request.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	return token != "" && u.ResetPasswordToken == token &&
		u.ResetPasswordExpires != nil && now.Before(*u.ResetPasswordExpires)
}

// UserSummary is the public projection of an account embedded in other responses.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role  Role               `bson:"role,omitempty" json:"role,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}
