package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

// User is the identity record owned by the auth service. Orders reference it
// by id only.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email     string         `gorm:"column:email;not null;uniqueIndex"`
	FirstName string         `gorm:"column:first_name;not null"`
	LastName  string         `gorm:"column:last_name;not null"`
	Role      enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
