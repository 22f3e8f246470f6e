// Package validate is the request pre-check: shape and format rules that run
// before any application flow sees the input.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/company-registry/internal/domain"
)

const (
	DefaultPasswordMinLength = 6
	DefaultMobilePattern     = `^\+?[0-9]{10,15}$`
)

type Options struct {
	PasswordMinLength int
	MobilePattern     *regexp.Regexp
}

type Validator struct {
	v      *validator.Validate
	trans  ut.Translator
	minPwd int
	mobile *regexp.Regexp
}

func New(opts Options) (*Validator, error) {
	if opts.PasswordMinLength <= 0 {
		opts.PasswordMinLength = DefaultPasswordMinLength
	}
	if opts.MobilePattern == nil {
		opts.MobilePattern = regexp.MustCompile(DefaultMobilePattern)
	}

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")

	val := &Validator{
		v:      validator.New(validator.WithRequiredStructEnabled()),
		trans:  trans,
		minPwd: opts.PasswordMinLength,
		mobile: opts.MobilePattern,
	}

	// report json names, not Go field names
	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := en_translations.RegisterDefaultTranslations(val.v, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}
	if err := val.v.RegisterValidation("password", val.validatePassword); err != nil {
		return nil, err
	}
	if err := val.v.RegisterValidation("mobile", val.validateMobile); err != nil {
		return nil, err
	}

	custom := map[string]string{
		"password": fmt.Sprintf("{0} must be at least %d characters", val.minPwd),
		"mobile":   "{0} must be a valid mobile number",
	}
	for tag, msg := range custom {
		if err := val.v.RegisterTranslation(tag, trans, registerMessage(tag, msg), translateField); err != nil {
			return nil, fmt.Errorf("register %s translation: %w", tag, err)
		}
	}
	return val, nil
}

// Struct runs the rules tagged on v. Failures come back as a single
// validation_failed error carrying one message per field.
func (val *Validator) Struct(v any) error {
	err := val.v.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidField("body", err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fe.Translate(val.trans)
	}
	return domain.ErrValidationFailed(fields)
}

func (val *Validator) validatePassword(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= val.minPwd
}

func (val *Validator) validateMobile(fl validator.FieldLevel) bool {
	return val.mobile.MatchString(fl.Field().String())
}

func registerMessage(tag, msg string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
}

func translateField(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Field() + " is invalid"
	}
	return msg
}
