package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleItem.Subtotal is a NullDecimal because a row has no subtotal until the
// first successful save computes one; readers must treat null as zero.
type SaleItem struct {
	ID        string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	SaleID    string              `gorm:"size:36;index;not null" json:"sale_id"`
	Sale      *Sale               `gorm:"foreignKey:SaleID" json:"-"`
	ProductID string              `gorm:"size:36;index;not null" json:"product_id"`
	Product   *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Subtotal  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (si *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if si.ID == "" {
		si.ID = uuid.New().String()
	}
	return
}

// SubtotalOrZero reads the derived subtotal, mapping a never-computed (null)
// value to 0.00 so that total aggregation stays defined.
func (si *SaleItem) SubtotalOrZero() decimal.Decimal {
	if !si.Subtotal.Valid {
		return decimal.Zero
	}
	return si.Subtotal.Decimal
}
