package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New()
		// Report yaml names ("api.url") instead of Go field names
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

// ValidationError lists every invalid setting of a config
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the config against its validate tags
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating configuration: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range errs {
		verr.Problems = append(verr.Problems, describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	// Namespace is "Config.api.url"; drop the root type
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "url":
		return fmt.Sprintf("%s: %q is not a URL", path, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of %s", path, fe.Value(), fe.Param())
	case "eq":
		return fmt.Sprintf("%s must be %s", path, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s (value %v)", path, fe.Tag(), fe.Param(), fe.Value())
	}
}
