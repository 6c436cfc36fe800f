package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/orders"
	"backend/internal/payments"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureOrderItemIndexes(db); err != nil {
		log.Printf("⚠️ order item index warning: %v", err)
	}
	if err := database.EnsureProfileIndexes(db); err != nil {
		log.Printf("⚠️ profile index warning: %v", err)
	}

	stripeAPI := payments.NewStripeAPI(config.AppEnv.StripeSecretKey)
	initiator := payments.NewSessionInitiator(stripeAPI, config.AppEnv.AppBaseURL, config.AppEnv.Currency)
	verifier := payments.NewWebhookVerifier(config.AppEnv.StripeWebhookSecret)
	resolver := payments.NewSessionResolver(stripeAPI)
	materializer := orders.NewMaterializer(orders.NewStore(db), stripeAPI)

	r := gin.Default()

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))

	r.POST("/api/checkout", handlers.CreateCheckoutSession(initiator, config.AppEnv.JWTSecret))
	r.GET("/api/checkout/session", handlers.GetCheckoutSession(resolver))
	r.POST("/api/webhooks/stripe", handlers.StripeWebhook(verifier, materializer))

	r.GET("/orders", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMyOrders(db))
	r.GET("/orders/:id", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetOrderByID(db))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/me", handlers.GetMe(db))
		user.PUT("/me", handlers.UpdateMe(db))
		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
