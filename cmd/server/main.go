package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "inventory-backend/internal/adapters/web"
	"inventory-backend/internal/app"
	"inventory-backend/internal/core"
	"inventory-backend/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	ledger := core.NewStockLedger(pool)
	userService := core.NewUserService(pool)
	itemService := core.NewItemService(pool)
	orderService := core.NewOrderService(pool, ledger)
	purchaseOrderService := core.NewPurchaseOrderService(pool, ledger)
	customerService := core.NewCustomerService(pool)
	supplierService := core.NewSupplierService(pool)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(userService, itemService, ledger, orderService,
		purchaseOrderService, customerService, supplierService, reportingService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
