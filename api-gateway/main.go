package main

import (
	"log"
	"net/http"
	"time"

	"bakery-preorder/api-gateway/internal/gateway"
	"bakery-preorder/config"

	"github.com/rs/cors"
)

func main() {
	config.LoadEnv()

	cfg := gateway.Config{
		OrderSvcURL:     config.GetEnv("ORDER_SVC_URL", "http://localhost:8081"),
		AnalyticsSvcURL: config.GetEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
		FrontendDir:     config.GetEnv("FRONTEND_DIR", "./frontend"),
	}

	gw := gateway.NewGateway(cfg, &http.Client{Timeout: config.GetDuration("UPSTREAM_TIMEOUT", 30*time.Second)})

	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	addr := config.GetEnv("GATEWAY_ADDR", ":8080")
	log.Printf("API Gateway starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
