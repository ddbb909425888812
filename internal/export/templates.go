// Package export renders the catalog as study sheets.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string, logger *slog.Logger) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	// First, try to read from the filesystem
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			logger.Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	// Fall back to the embedded template
	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}

	return tmpl, nil
}
