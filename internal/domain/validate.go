package domain

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := ParseClock(fl.Field().String())
			return err == nil
		})
		// Storm region code: 1-16 ASCII letters or digits.
		validate.RegisterAlias("region", "required,alphanum,max=16")
	})
	return validate
}

// Validate checks struct tags, including the custom "clock" and "region" tags.
func Validate(v any) error {
	return validatorInstance().Struct(v)
}

// IsRegionCode reports whether s looks like a storm region code.
func IsRegionCode(s string) bool {
	return validatorInstance().Var(s, "region") == nil
}
