package cache

import (
	"os"
	"strconv"

	"gobalance/pkg/styles"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient construye el cliente Redis donde el balanceador espeja
// el índice de workers vivos. La configuración sale del entorno.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	pass := os.Getenv("REDIS_PASSWORD") // opcional
	db := getint("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	styles.PrintFS("info", "[REDIS] Conectando a %s (DB %d)", addr, db)
	return client
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
