package main

import (
	"log"
	"os"

	"gobalance/internal/balancer/cache"
	"gobalance/internal/balancer/httpserver"
	"gobalance/internal/balancer/server"
	"gobalance/pkg/styles"
)

func main() {
	rdb := cache.NewRedisClient()
	srv := server.NewServer(rdb)

	clientAddr := getenv("CLIENT_TCP_ADDR", ":8888")
	workerAddr := getenv("WORKER_TCP_ADDR", ":8889")
	httpAddr := getenv("HTTP_ADDR", ":8080")

	go func() {
		router := httpserver.NewRouter(srv, rdb)
		styles.PrintFS("info", "[BALANCER] API administrativa en %s", httpAddr)
		if err := router.Run(httpAddr); err != nil {
			log.Fatal(styles.SprintfS("error", "[BALANCER] Error en API HTTP: %v", err))
		}
	}()

	if err := srv.Start(clientAddr, workerAddr); err != nil {
		log.Fatal(styles.SprintfS("error", "[BALANCER] %v", err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
