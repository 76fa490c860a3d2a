package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	slugTag   = "slug"
	slugText  = "{0} must be lowercase letters, digits and single hyphens"
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	requiredText = "{0} is required"
)

// FieldErrors maps JSON field paths to translated messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with English messages keyed by JSON
// field names.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns the shared validator.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// New builds a validator with the custom tags registered.
func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation(slugTag, func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	registerTranslation(validate, trans, slugTag, slugText, false)
	registerTranslation(validate, trans, "required", requiredText, true)

	return &Validator{validate: validate, translator: trans}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, override)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// Struct validates s. Constraint violations come back as FieldErrors; any other
// failure (e.g. a non-struct argument) is returned as is.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = fe.Translate(v.translator)
	}
	return out
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
