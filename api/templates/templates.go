package templates

import (
	"embed"
	"fmt"
	"html/template"
	"math"
)

//go:embed *.html
var files embed.FS

// Load parses the embedded pages with the helpers they use.
func Load() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(Funcs()).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"int": func(v float64) int {
			return int(v)
		},
		"fixed": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"rupees": func(v float64) string {
			return fmt.Sprintf("₹%d", int(math.Round(v)))
		},
	}
}
