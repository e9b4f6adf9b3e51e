package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/job-portal/internal/domain"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name (form tag first, then json).
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = validate.RegisterValidation("job_role", func(fl validator.FieldLevel) bool {
		return domain.IsValidJobRole(fl.Field().String())
	})

	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("job_role", trans,
		func(u ut.Translator) error {
			return u.Add("job_role", "{0} must be one of the listed job roles", true)
		},
		func(u ut.Translator, fe validator.FieldError) string {
			t, _ := u.T("job_role", fe.Field())
			return t
		},
	)
}

// toDomainError turns the first validator failure into the matching domain error.
// Missing values win over malformed ones so clients see "All fields are required" first.
func toDomainError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domain.ErrInvalidField("body", err.Error())
	}

	for _, fe := range ves {
		if fe.Tag() == "required" {
			return domain.ErrFieldsRequired(fe.Field())
		}
	}

	fe := ves[0]
	if fe.Field() == "role" && fe.Tag() == "oneof" {
		return domain.ErrInvalidRole(fe.Value().(string))
	}
	return domain.ErrInvalidField(fe.Field(), fe.Translate(trans))
}
