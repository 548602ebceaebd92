// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PasswordMinLength = 6
	NameMaxLength     = 50
)

// User is owned by the auth collaborator; chats only reference its ID.
type User struct {
	ID        string     `json:"id" gorm:"type:char(36);primaryKey"`
	Email     string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name      string     `json:"name" gorm:"type:varchar(50);not null"`
	Password  string     `json:"-" gorm:"not null"`
	IsActive  bool       `json:"isActive" gorm:"not null;default:true"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		u.ID = id.String()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string, cost int) error {
	if len(password) < PasswordMinLength {
		return errors.New("password must be at least 6 characters")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the user's hashed password.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsValid() error {
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email format")
	}
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if len([]rune(name)) > NameMaxLength {
		return errors.New("name too long")
	}
	return nil
}
