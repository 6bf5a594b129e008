// Package validation wraps the request validator with Spanish translations
// so handlers surface human-readable field errors.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	estranslations "github.com/go-playground/validator/v10/translations/es"
)

// Validator validates payload structs and translates failures.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with Spanish default translations registered.
func New() (*Validator, error) {
	locale := es.New()
	uni := ut.New(locale, locale)

	trans, ok := uni.GetTranslator("es")
	if !ok {
		return nil, fmt.Errorf("spanish translator not found")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := estranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s and returns the first translated failure message, or
// the empty string when the struct is valid.
func (v *Validator) Struct(s any) string {
	err := v.validate.Struct(s)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Translate(v.trans)
	}

	return err.Error()
}
