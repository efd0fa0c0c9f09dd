package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var palette = map[string]lipgloss.Style{
	"default": lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
	"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("#F45E6E")),
	"success": lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF4A1")),
	"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("#6EC4F4")),
	"warn":    lipgloss.NewStyle().Foreground(lipgloss.Color("#F4C56E")),
}

func render(style, text string) string {
	s, ok := palette[style]
	if !ok {
		s = palette["default"]
	}
	return s.Render(text)
}

// PrintFS imprime el texto formateado con el estilo indicado.
func PrintFS(style string, format string, a ...interface{}) {
	fmt.Println(render(style, fmt.Sprintf(format, a...)))
}

// SprintfS devuelve el texto formateado con el estilo indicado.
func SprintfS(style string, format string, a ...interface{}) string {
	return render(style, fmt.Sprintf(format, a...))
}
