package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when the run parameters fail validation.
var ErrInvalidInput = errors.New("invalid input")

// Cities lists the cities the dashboard can analyze, in display order.
var Cities = []string{
	"New York", "London", "Paris", "Tokyo", "Moscow",
	"Sydney", "Berlin", "Beijing", "Rio de Janeiro", "Dubai",
	"Los Angeles", "Singapore", "Mumbai", "Cairo", "Mexico City",
}

// IsSupportedCity reports whether city is one of Cities (exact match).
func IsSupportedCity(city string) bool {
	for _, c := range Cities {
		if c == city {
			return true
		}
	}
	return false
}

// Input holds one dashboard run: the uploaded CSV, the selected city and an
// optional OpenWeather API key.
type Input struct {
	File   []byte `validate:"required,min=1"`
	City   string `validate:"required,city"`
	APIKey string `validate:"omitempty,max=256"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return IsSupportedCity(fl.Field().String())
	})
	return v
}

func (in Input) validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", field)
	case "city":
		return fmt.Sprintf("%s must be one of the supported cities", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
