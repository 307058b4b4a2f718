package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"flowpack/internal/classify"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return describeValidation(err)
	}
	if err := validateExtensions("merge.extensions", c.Merge.Extensions); err != nil {
		return err
	}
	if err := validateExtensions("organize.extensions", c.Organize.Extensions); err != nil {
		return err
	}
	if !strings.HasPrefix(c.Clean.Extension, ".") {
		return fmt.Errorf("clean.extension %q must start with a dot", c.Clean.Extension)
	}
	if err := validateCategories("merge.categories", c.Merge.Categories, c.Merge.Fallback); err != nil {
		return err
	}
	if err := validateCategories("organize.categories", c.Organize.Categories, c.Organize.Fallback); err != nil {
		return err
	}
	return nil
}

func validateExtensions(field string, values []string) error {
	for _, ext := range values {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%s: %q must start with a dot", field, ext)
		}
	}
	return nil
}

func validateCategories(field string, categories []classify.Category, fallback string) error {
	seen := make(map[string]struct{}, len(categories))
	for i, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s[%d]: name %q must not contain path separators", field, i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%s[%d]: duplicate category %q", field, i, name)
		}
		seen[name] = struct{}{}
	}
	if strings.ContainsAny(fallback, `/\`) {
		return fmt.Errorf("%s: fallback %q must not contain path separators", field, fallback)
	}
	return nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := fieldErrs[0]
	path := tomlPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", path)
	case "min":
		return fmt.Errorf("%s must contain at least %s entries", path, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be >= %s", path, fe.Param())
	case "oneof":
		return fmt.Errorf("%s: unsupported value %q (expected one of %s)", path, fmt.Sprint(fe.Value()), fe.Param())
	default:
		return fmt.Errorf("%s failed %q validation", path, fe.Tag())
	}
}

// tomlPath converts a validator namespace such as "Config.Merge.Categories[0].Name"
// into the snake_case key a user would edit.
func tomlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		index := ""
		if open := strings.IndexByte(part, '['); open >= 0 {
			index = part[open:]
			part = part[:open]
		}
		parts[i] = snakeCase(part) + index
	}
	return strings.Join(parts, ".")
}

func snakeCase(value string) string {
	var b strings.Builder
	for i, r := range value {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
