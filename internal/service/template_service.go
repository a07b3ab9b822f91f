// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/leadreach-backend/internal/model"
)

const (
	// NamePlaceholder is replaced with the lead's name in outbound templates.
	NamePlaceholder = "{nome}"
	// FallbackName stands in for leads without a name.
	FallbackName = "amigo(a)"
)

// RenderTemplate replaces every {key} with its value.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// Personalize fills the name placeholder for one lead. Same input, same output.
func Personalize(template string, lead model.Lead) string {
	return RenderTemplate(template, map[string]string{"nome": displayName(lead)})
}

// displayName never contains the placeholder itself, so one pass leaves no token behind.
func displayName(lead model.Lead) string {
	name := lead.Name
	for strings.Contains(name, NamePlaceholder) {
		name = strings.ReplaceAll(name, NamePlaceholder, "")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackName
	}
	return name
}
