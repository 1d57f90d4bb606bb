package routes

import (
	"github.com/dukahub/duka-pos/app/handlers"
	"github.com/dukahub/duka-pos/app/repositories"
	"github.com/dukahub/duka-pos/app/services"
	"github.com/dukahub/duka-pos/app/utils/renderer"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, logger *zap.Logger) *mux.Router {
	rnd := renderer.New()
	validate := validator.New()

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	saleItemRepo := repositories.NewSaleItemRepository(db)

	totalsSvc := services.NewTotalsService(productRepo, saleRepo, saleItemRepo, logger)
	saleSvc := services.NewSaleService(db, saleRepo, saleItemRepo, productRepo, totalsSvc, logger)
	catalogSvc := services.NewCatalogService(db, categoryRepo, productRepo, saleItemRepo, totalsSvc, logger)

	categoryHandler := handlers.NewCategoryHandler(rnd, validate, catalogSvc, logger)
	productHandler := handlers.NewProductHandler(rnd, validate, catalogSvc, logger)
	saleHandler := handlers.NewSaleHandler(rnd, validate, saleSvc, totalsSvc, logger)
	saleItemHandler := handlers.NewSaleItemHandler(rnd, validate, saleSvc, logger)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/categories", categoryHandler.List).Methods("GET")
	api.HandleFunc("/categories", categoryHandler.Create).Methods("POST")
	api.HandleFunc("/categories/{id}", categoryHandler.Get).Methods("GET")
	api.HandleFunc("/categories/{id}", categoryHandler.Update).Methods("PUT")
	api.HandleFunc("/categories/{id}", categoryHandler.Delete).Methods("DELETE")

	api.HandleFunc("/products", productHandler.List).Methods("GET")
	api.HandleFunc("/products", productHandler.Create).Methods("POST")
	api.HandleFunc("/products/{id}", productHandler.Get).Methods("GET")
	api.HandleFunc("/products/{id}", productHandler.Update).Methods("PUT")
	api.HandleFunc("/products/{id}", productHandler.Delete).Methods("DELETE")

	api.HandleFunc("/sales", saleHandler.List).Methods("GET")
	api.HandleFunc("/sales", saleHandler.Create).Methods("POST")
	api.HandleFunc("/sales/recompute-totals", saleHandler.RecomputeTotals).Methods("POST")
	api.HandleFunc("/sales/{id}", saleHandler.Get).Methods("GET")
	api.HandleFunc("/sales/{id}", saleHandler.Update).Methods("PUT")
	api.HandleFunc("/sales/{id}", saleHandler.Delete).Methods("DELETE")

	api.HandleFunc("/sale-items", saleItemHandler.List).Methods("GET")
	api.HandleFunc("/sale-items", saleItemHandler.Create).Methods("POST")
	api.HandleFunc("/sale-items/{id}", saleItemHandler.Get).Methods("GET")
	api.HandleFunc("/sale-items/{id}", saleItemHandler.Update).Methods("PUT")
	api.HandleFunc("/sale-items/{id}", saleItemHandler.Delete).Methods("DELETE")

	return router
}
