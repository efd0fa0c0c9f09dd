package main

import (
	"os"

	"gobalance/internal/client"
	"gobalance/pkg/styles"
)

func main() {
	addr := os.Getenv("BALANCER_ADDR")
	if addr == "" {
		addr = "localhost:8888"
	}

	c := client.New()
	if err := c.Connect(addr); err != nil {
		styles.PrintFS("error", "[CLIENT] %v", err)
		os.Exit(1)
	}
	defer c.Close()

	// Tareas de ejemplo: cada una será distribuida entre los workers
	// disponibles
	tasks := []string{
		"1,2,3,4,5",       // suma = 15
		"10,20,30",        // suma = 60
		"100,200,300,400", // suma = 1000
	}

	if len(os.Args) > 1 {
		tasks = os.Args[1:]
	}

	var results []string
	for _, data := range tasks {
		result, err := c.Submit(data)
		if err != nil {
			styles.PrintFS("error", "[CLIENT] %v", err)
			continue
		}
		results = append(results, result)
	}

	styles.PrintFS("default", "[CLIENT] Resumen de resultados:")
	for i, r := range results {
		styles.PrintFS("default", "  Tarea %d: %s", i+1, r)
	}
}
