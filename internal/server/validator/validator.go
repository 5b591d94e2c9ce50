package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator turns binding errors into client-facing messages keyed by json field name.
type Validator struct {
	trans ut.Translator
}

var (
	once     sync.Once
	instance *Validator
)

// New configures gin's validator engine once and returns the shared Validator.
func New() *Validator {
	once.Do(func() {
		instance = &Validator{}

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)

		english := en.New()
		uni := ut.New(english, english)
		instance.trans, _ = uni.GetTranslator("en")

		_ = en_translations.RegisterDefaultTranslations(v, instance.trans)
	})
	return instance
}

// ParseError converts raw technical errors into a clean map.
func (val *Validator) ParseError(err error) map[string]string {
	errMap := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			ns := e.Namespace()

			if i := strings.Index(ns, "."); i != -1 {
				ns = ns[i+1:]
			}

			var msg string
			switch e.Tag() {
			case "notblank":
				msg = fmt.Sprintf("%s must not be blank", e.Field())
			case "oneof":
				msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
			default:
				if val.trans != nil {
					msg = e.Translate(val.trans)
				} else {
					msg = e.Error()
				}
			}

			errMap[ns] = msg
		}
		return errMap
	}

	errMap["body"] = "Invalid request body format. Please fix your payload."
	return errMap
}
