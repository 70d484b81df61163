package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"social-analytics-dashboard/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

type brandRules struct {
	Name         string   `json:"name" validate:"required"`
	InstagramURL string   `json:"instagram_url" validate:"required"`
	FacebookURL  string   `json:"facebook_url" validate:"required"`
	Keywords     []string `json:"keywords" validate:"min=1,dive,required"`
}

// SplitKeywords turns "a, b,,c" into [a b c].
func SplitKeywords(raw string) []string {
	return normalizeKeywords(strings.Split(raw, ","))
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ValidateBrands checks that every brand has a name, both profile URLs and
// at least one keyword, and returns the brands_config payload keyed by name.
func ValidateBrands(brands []models.BrandInput) (map[string]models.BrandConfigIn, error) {
	if len(brands) == 0 {
		return nil, &ValidationError{Field: "brands", Message: "At least one brand configuration is required."}
	}

	configs := make(map[string]models.BrandConfigIn, len(brands))
	for i, brand := range brands {
		rules := brandRules{
			Name:         strings.TrimSpace(brand.Name),
			InstagramURL: strings.TrimSpace(brand.InstagramURL),
			FacebookURL:  strings.TrimSpace(brand.FacebookURL),
			Keywords:     normalizeKeywords(brand.Keywords),
		}

		if err := validate.Struct(rules); err != nil {
			field := "brands"
			if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
				field = fmt.Sprintf("brands[%d].%s", i, fieldErrs[0].Field())
			}
			return nil, &ValidationError{Field: field, Message: "Please fill in all required fields for each brand."}
		}

		if _, exists := configs[rules.Name]; exists {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("brands[%d].name", i),
				Message: fmt.Sprintf("Duplicate brand name: %s", rules.Name),
			}
		}

		configs[rules.Name] = models.BrandConfigIn{
			InstagramURL: rules.InstagramURL,
			FacebookURL:  rules.FacebookURL,
			Keywords:     rules.Keywords,
		}
	}

	return configs, nil
}
