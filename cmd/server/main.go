package main

import (
	"net/http"

	"digistore-be/internal/checkout"
	"digistore-be/internal/code"
	"digistore-be/internal/config"
	"digistore-be/internal/db"
	"digistore-be/internal/fulfillment"
	"digistore-be/internal/logger"
	"digistore-be/internal/middleware"
	"digistore-be/internal/order"
	"digistore-be/internal/payment"
	"digistore-be/internal/payment/webhook"
	"digistore-be/internal/product"
	"digistore-be/internal/transport"
	"digistore-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)

	orderRepo := order.NewRepository(database)
	codeRepo := code.NewRepository(database)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	checkoutSvc := checkout.NewService(orderRepo, gateway)
	fulfillmentSvc := fulfillment.NewService(orderRepo, codeRepo, gateway)
	webhookHandler := webhook.NewWebhookHandler(fulfillmentSvc, gateway)

	mux := http.NewServeMux()
	mux.HandleFunc("/functions/create-payment-intent", transport.HandleCreatePaymentIntent(checkoutSvc))
	mux.HandleFunc("/functions/deliver-digital-codes", transport.HandleDeliverCodes(fulfillmentSvc))
	mux.HandleFunc("/webhook/stripe", webhookHandler.WebhookHandler)
	mux.HandleFunc("/auth/register", transport.HandleRegister(userSvc))
	mux.HandleFunc("/auth/login", transport.HandleLogin(userSvc))
	mux.HandleFunc("/auth/me", transport.HandleMe(userSvc))
	mux.HandleFunc("/products", transport.HandleListProducts(productSvc))
	mux.HandleFunc("/orders", transport.HandleListOrders(orderRepo))
	mux.Handle("/admin/products/", middleware.RequireAdmin(transport.HandleProvisionCodes(productSvc, codeRepo)))
	mux.HandleFunc("/healthz", transport.HandleHealth(database))

	limiter := middleware.NewRateLimiter()

	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	addr := ":" + cfg.AppPort
	logger.L().Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
