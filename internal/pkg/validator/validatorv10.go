package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/foliolabs/folio/internal/pkg/strcase"
)

var (
	// NIST 800-63B: length is the only hard password requirement; 72 is
	// bcrypt's input ceiling.
	rePassword = regexp.MustCompile(`^.{8,72}$`)

	// verification codes are exactly six ASCII digits
	reDigits6 = regexp.MustCompile(`^[0-9]{6}$`)

	reAlphaSpace = regexp.MustCompile(`^[a-zA-Z ]+$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10 with
// English translations plus the service's custom rules.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}

	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator builds the production validator.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustomRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate validates data and returns a V10ValidationError on rule failures.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return out
}

func registerCustomRules(validate *validator.Validate, enTrans ut.Translator) error {
	stringRule := func(re *regexp.Regexp) validator.Func {
		return func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(s)
		}
	}

	translation := func(tag, msg string, override bool) error {
		return validate.RegisterTranslation(tag, enTrans,
			func(ut ut.Translator) error {
				return ut.Add(tag, msg, override)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Tag()
				}
				return t
			},
		)
	}

	if err := validate.RegisterValidation("password", stringRule(rePassword)); err != nil {
		return err
	}
	if err := translation("password", "{0} must be 8-72 characters", false); err != nil {
		return err
	}

	if err := validate.RegisterValidation("digits6", stringRule(reDigits6)); err != nil {
		return err
	}
	if err := translation("digits6", "{0} must be exactly 6 digits", false); err != nil {
		return err
	}

	// alphaspace is a validator built-in whose default translation arrives
	// with RegisterDefaultTranslations; override both the rule and the message
	// instead of colliding on the existing key.
	if err := validate.RegisterValidation("alphaspace", stringRule(reAlphaSpace)); err != nil {
		return err
	}

	return translation("alphaspace", "{0} may only contain letters and spaces", true)
}
