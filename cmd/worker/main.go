package main

import (
	"os"

	"gobalance/internal/worker"
	"gobalance/pkg/styles"
)

func main() {
	w := worker.New(os.Getenv("WORKER_ID"))

	addr := os.Getenv("BALANCER_ADDR")
	if addr == "" {
		addr = "localhost:8889"
	}

	if err := w.Connect(addr); err != nil {
		styles.PrintFS("error", "[WORKER] %v", err)
		os.Exit(1)
	}
	defer w.Close()

	styles.PrintFS("default", "[WORKER %s] Listo para procesar tareas", w.ID)
	if err := w.Run(); err != nil {
		styles.PrintFS("error", "[WORKER] %v", err)
		os.Exit(1)
	}
}
