package seeders

import (
	"github.com/dukahub/duka-pos/app/db/fakers"
	"gorm.io/gorm"
)

const productsPerCategory = 5

func DBSeed(db *gorm.DB) error {
	for i := 0; i < 4; i++ {
		category := fakers.CategoryFaker()
		if err := db.Create(category).Error; err != nil {
			return err
		}

		for j := 0; j < productsPerCategory; j++ {
			product := fakers.ProductFaker(category)
			if err := db.Create(product).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
