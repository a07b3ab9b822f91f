package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/segment"
)

// TargetingConfig selects which leads receive which template.
type TargetingConfig struct {
	Name      string            `json:"name"`
	Segments  []string          `json:"selected_types" validate:"required,min=1,dive,oneof=atacadista varejista comprador"`
	Templates map[string]string `json:"messages"`
	MediaURL  *string           `json:"media_url,omitempty" validate:"omitempty,url"`
	DelayMin  int               `json:"delay_min" validate:"gte=0"`
	DelayMax  int               `json:"delay_max" validate:"gtefield=DelayMin"`
}

// Template returns the configured template of a segment.
func (c TargetingConfig) Template(seg segment.Segment) string {
	return c.Templates[string(seg)]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and reports the first failure as a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return appErrors.NewValidation(fe.Field(), describe(fe))
	}
	return eris.Wrap(err, "validate input")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("unknown value %v", fe.Value())
	case "gte":
		return "must not be negative"
	case "gtefield":
		return "must be greater than or equal to delay_min"
	case "url":
		return "must be a URL"
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	}
	return "failed " + fe.Tag()
}

// validateTargeting checks the selection and that every selected segment has a template.
func validateTargeting(cfg TargetingConfig) (segment.Set, error) {
	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	set, bad, ok := segment.NewSet(cfg.Segments)
	if !ok {
		return nil, appErrors.NewValidation("selected_types", fmt.Sprintf("unknown value %s", bad))
	}
	for _, key := range cfg.Segments {
		if strings.TrimSpace(cfg.Templates[key]) == "" {
			return nil, appErrors.NewValidation("messages."+key, "template is required")
		}
	}
	return set, nil
}

// selectTargets validates cfg and keeps the leads whose segment is selected.
// An empty selection is ErrNothingSelected.
func selectTargets(leads []model.Lead, cfg TargetingConfig) ([]model.Lead, error) {
	set, err := validateTargeting(cfg)
	if err != nil {
		return nil, err
	}
	targets := set.Filter(leads)
	if len(targets) == 0 {
		return nil, appErrors.ErrNothingSelected
	}
	return targets, nil
}
