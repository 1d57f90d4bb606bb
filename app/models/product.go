package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CategoryID    string          `gorm:"size:36;index;not null" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Sku           string          `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	StockQuantity int             `gorm:"not null" json:"stock_quantity"`
	SaleItems     []SaleItem      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
