package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `json:"avatar"`
	Plan         string    `gorm:"default:'free'" json:"plan"`
	ReceiptScans bool      `gorm:"default:false" json:"receipt_scans"`
	MultiWallet  bool      `gorm:"default:false" json:"multi_wallet"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	return nil
}

func (User) TableName() string {
	return "users"
}

// Projection is the slim user view exchanged with other services and
// stored in the cache. It is never authoritative.
type Projection struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Plan   string    `json:"plan"`
}

func (u *User) Projection() *Projection {
	return &Projection{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Plan:   u.Plan,
	}
}
