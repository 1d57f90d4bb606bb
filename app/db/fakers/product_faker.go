package fakers

import (
	"math/rand"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

func CategoryFaker() *models.Category {
	return &models.Category{
		ID:   uuid.New().String(),
		Name: faker.Word(),
	}
}

func ProductFaker(category *models.Category) *models.Product {
	name := faker.Name()

	return &models.Product{
		ID:            uuid.New().String(),
		Name:          name,
		UnitPrice:     fakeUnitPrice(),
		CategoryID:    category.ID,
		Sku:           slug.Make(name + "-" + uuid.NewString()[:6]),
		StockQuantity: rand.Intn(200) + 1,
	}
}

func fakeUnitPrice() decimal.Decimal {
	cents := rand.Int63n(500000) + 1
	return decimal.New(cents, -2)
}
