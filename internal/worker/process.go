package worker

import (
	"fmt"
	"strconv"
	"strings"
)

// SumTask es la función de dominio de ejemplo: suma una lista de
// enteros separados por comas ("1,2,3,4,5" -> "15").
func SumTask(taskData string) (string, error) {
	parts := strings.Split(taskData, ",")
	sum := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("valor no numérico %q", strings.TrimSpace(p))
		}
		sum += n
	}
	return strconv.Itoa(sum), nil
}
