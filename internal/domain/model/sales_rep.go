package model

import (
	"errors"
	"strings"
	"time"
)

// 営業担当。取引先からの逆参照で担当を持つ。
type SalesRep struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Region    string    `gorm:"type:varchar(100);index" json:"region"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

var ErrSalesRepNameRequired = errors.New("name required")

func (r SalesRep) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrSalesRepNameRequired
	}
	return nil
}
