package main

import (
	httpapi "bakery-preorder/analytics-svc/internal/api/http"
	"bakery-preorder/analytics-svc/internal/service"
	"bakery-preorder/config"
)

func main() {
	config.LoadEnv()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	handler := httpapi.NewHandler(service.NewAnalyticsService(rdb, config.Location()))
	httpapi.StartServer(config.GetEnv("ANALYTICS_SVC_ADDR", ":8083"), httpapi.NewRouter(handler))
}
