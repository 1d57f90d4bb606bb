package migrations

import (
	"github.com/dukahub/duka-pos/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Sale{}, &models.SaleItem{})
}
