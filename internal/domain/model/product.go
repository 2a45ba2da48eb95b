package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	ProductCategoryCarbonated ProductCategory = "carbonated"
	ProductCategoryJuice      ProductCategory = "juice"
	ProductCategoryCoffee     ProductCategory = "coffee"
	ProductCategoryTea        ProductCategory = "tea"
	ProductCategorySports     ProductCategory = "sports"
	ProductCategoryWater      ProductCategory = "water"
	ProductCategoryAlcohol    ProductCategory = "alcohol"
	ProductCategoryOther      ProductCategory = "other"
)

func AllProductCategories() []ProductCategory {
	return []ProductCategory{
		ProductCategoryCarbonated,
		ProductCategoryJuice,
		ProductCategoryCoffee,
		ProductCategoryTea,
		ProductCategorySports,
		ProductCategoryWater,
		ProductCategoryAlcohol,
		ProductCategoryOther,
	}
}

func (c ProductCategory) Valid() bool {
	for _, v := range AllProductCategories() {
		if v == c {
			return true
		}
	}
	return false
}

// 商品。価格は現在値のみで履歴は持たない
type Product struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	SKU         string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Category    ProductCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	UnitSize    string          `gorm:"type:varchar(50)" json:"unit_size"`
	MinOrderQty int64           `gorm:"not null;default:1" json:"min_order_qty"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	ImageURL    *string         `gorm:"type:text" json:"image_url"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

var (
	ErrProductNameRequired = errors.New("name required")
	ErrProductSKURequired  = errors.New("sku required")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidUnitPrice    = errors.New("unit_price must be > 0")
	ErrInvalidMinOrderQty  = errors.New("min_order_qty must be >= 1")
)

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameRequired
	}
	if strings.TrimSpace(p.SKU) == "" {
		return ErrProductSKURequired
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if !p.UnitPrice.IsPositive() {
		return ErrInvalidUnitPrice
	}
	if p.MinOrderQty < 1 {
		return ErrInvalidMinOrderQty
	}
	return nil
}
