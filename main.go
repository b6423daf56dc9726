package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/checkout"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/payments"
	"backend/internal/repository"
	"backend/internal/shipping"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureShipmentIndexes(db); err != nil {
		log.Printf("shipment index warning: %v", err)
	}
	if err := database.EnsureCheckoutKeyIndexes(db); err != nil {
		log.Printf("checkout key index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}

	catalog := repository.NewCatalog(db)
	carts := repository.NewCarts(db)
	stock := repository.NewStock(db)
	orders := repository.NewOrders(db)
	shipments := repository.NewShipments(db)
	keys := repository.NewCheckoutKeys(db)

	reservations := checkout.NewReservationService(catalog, stock)
	checkoutService := checkout.NewService(carts, catalog, reservations, orders, keys)
	tracker := shipping.NewTracker(shipments)

	gateway, err := payments.NewStripeGateway(config.AppEnv.StripeAPIKey, nil)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	r.GET("/products", handlers.GetProducts(catalog))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/checkout", handlers.Checkout(checkoutService))
		user.POST("/checkout/create-payment-intent", handlers.CreatePaymentIntent(gateway))
		user.GET("/orders", handlers.GetOrders(orders))
		user.GET("/orders/:id/tracking", handlers.GetTracking(tracker))
	}

	admin := r.Group("/")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.POST("/orders/:id/shipment", handlers.AdvanceShipment(tracker))
		admin.POST("/admin/api/orders/:id/payment", handlers.ConfirmPayment(orders))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
