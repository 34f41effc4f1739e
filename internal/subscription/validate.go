package subscription

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pkg/errors"
)

// FieldError names one failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every rule a subscription broke.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return "invalid subscription: " + strings.Join(parts, ", ")
}

var (
	validatorOnce sync.Once
	shared        *validator.Validate
)

// Validator returns the validator with the vocabulary tags registered:
// currency, continent, country and eventtype.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "currency", Currencies)
		mustRegister(v, "continent", Continents)
		mustRegister(v, "country", Countries)
		mustRegister(v, "eventtype", EventTypes)
		v.RegisterStructValidation(feeBounds, filter.EventFilter{})
		shared = v
	})
	return shared
}

func mustRegister(v *validator.Validate, tag string, set Set) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return set.Has(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

func feeBounds(sl validator.StructLevel) {
	f := sl.Current().Interface().(filter.EventFilter)
	if f.FeeMin != nil && f.FeeMax != nil && *f.FeeMin > *f.FeeMax {
		sl.ReportError(f.FeeMax, "registrationFeeMax", "FeeMax", "gtefield", "registrationFeeMin")
	}
}

// Validate checks sub against the vocabularies and filter rules. Failures
// are returned as a *ValidationError.
func Validate(sub *Subscription) error {
	err := Validator().Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating subscription")
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Namespace()
		// drop the root type name
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Rule: fe.Tag()})
	}
	return out
}
