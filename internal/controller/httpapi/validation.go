package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

// requestValidator проверяет тела запросов и переводит ошибки на русский
type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New()

	_ru := ru.New()
	uni := ut.New(_ru, _ru)
	translator, found := uni.GetTranslator(_ru.Locale())
	if !found {
		return nil, fmt.Errorf("translator %q not found", _ru.Locale())
	}
	if err := ru_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("register validation translations: %w", err)
	}

	// в сообщениях используются имена полей из JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{validate: validate, translator: translator}, nil
}

func (v *requestValidator) Struct(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(v.translator))
	}
	return badRequest(strings.Join(messages, "; "))
}

// decode читает JSON-тело и проверяет его
func (v *requestValidator) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("Некорректный JSON: " + err.Error())
	}
	return v.Struct(dst)
}
