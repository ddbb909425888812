package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// NewValidator returns a validator that names fields by their mapstructure tag
// and translates errors to English.
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	customs := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
		{tag: "cefr_level", fn: isCEFRLevel, message: "{0} must be one of all, a1, a2, b1, b2, c1, c2"},
		{tag: "examples_count", fn: isExamplesCount, message: "{0} must be -1 or between 1 and 10"},
	}
	for _, c := range customs {
		if err := validate.RegisterValidation(c.tag, c.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", c.tag, err)
		}
		tag, message := c.tag, c.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, trimNamespace(fe.Namespace()))
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

// TranslateErrors joins validation errors into one readable message.
func TranslateErrors(err error, trans ut.Translator) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var errorMsgs []string
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(trans))
	}
	return strings.Join(errorMsgs, ", ")
}

func trimNamespace(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	// Check if the owner has read permission
	return info.Mode().Perm()&(1<<(uint(8))) != 0
}

func isCEFRLevel(fl validator.FieldLevel) bool {
	level := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if level == vocabulary.LevelAll {
		return true
	}
	_, err := vocabulary.ParseCEFRLevel(level)
	return err == nil
}

func isExamplesCount(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n == -1 || (n >= 1 && n <= 10)
}
