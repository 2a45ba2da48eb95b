package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeWholesaler AccountType = "wholesaler"
	AccountTypeRetailer   AccountType = "retailer"
	AccountTypeEnterprise AccountType = "enterprise"
)

func AllAccountTypes() []AccountType {
	return []AccountType{AccountTypeWholesaler, AccountTypeRetailer, AccountTypeEnterprise}
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeWholesaler, AccountTypeRetailer, AccountTypeEnterprise:
		return true
	}
	return false
}

type AccountTier string

const (
	AccountTierBronze   AccountTier = "bronze"
	AccountTierSilver   AccountTier = "silver"
	AccountTierGold     AccountTier = "gold"
	AccountTierPlatinum AccountTier = "platinum"
)

func AllAccountTiers() []AccountTier {
	return []AccountTier{AccountTierBronze, AccountTierSilver, AccountTierGold, AccountTierPlatinum}
}

func (t AccountTier) Valid() bool {
	switch t {
	case AccountTierBronze, AccountTierSilver, AccountTierGold, AccountTierPlatinum:
		return true
	}
	return false
}

// 取引先。担当営業は参照のみ（所有関係ではない）
type Account struct {
	ID                 string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Type               AccountType     `gorm:"type:varchar(20);not null;index" json:"type"`
	Tier               AccountTier     `gorm:"type:varchar(20);not null;index" json:"tier"`
	CreditLimit        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"credit_limit"`
	Address            string          `gorm:"type:varchar(255)" json:"address"`
	ContactPerson      string          `gorm:"type:varchar(255)" json:"contact_person"`
	Phone              string          `gorm:"type:varchar(30)" json:"phone"`
	Email              string          `gorm:"type:varchar(255)" json:"email"`
	AssignedSalesRepID *string         `gorm:"type:varchar(36);index" json:"assigned_sales_rep_id"`
	CreatedAt          time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
}

var (
	ErrAccountNameRequired = errors.New("name required")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidAccountTier  = errors.New("invalid account tier")
	ErrInvalidCreditLimit  = errors.New("credit_limit must be >= 0")
)

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrAccountNameRequired
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if !a.Tier.Valid() {
		return ErrInvalidAccountTier
	}
	if a.CreditLimit.IsNegative() {
		return ErrInvalidCreditLimit
	}
	return nil
}
