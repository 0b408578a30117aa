package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance validador compartido; los mensajes usan el nombre json del campo.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// bindJSON parsea el cuerpo y valida los tags `validate`. Errores → domain.ErrInvalidInput.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

// bindQuery parsea la query string (tags `query`) y valida.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros inválidos", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validatorInstance().Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "email":
		return field + " debe ser un email válido"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s debe ser >= %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s debe ser <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no cumple %q", field, fe.Tag())
	}
}

// pageRequest lee limit/offset con sus valores por defecto.
func pageRequest(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return dto.PageRequest{}, err
	}
	page.DefaultPage()
	return page, nil
}

// dateRange lee ?from&to. Acepta RFC3339 o YYYY-MM-DD; una fecha "to" sin hora incluye ese día completo.
// Ausentes → cero (el caso de uso aplica el rango por defecto).
func dateRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if from, _, err = parseTimeParam("from", c.Query("from")); err != nil {
		return
	}
	var dateOnly bool
	if to, dateOnly, err = parseTimeParam("to", c.Query("to")); err != nil {
		return
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func parseTimeParam(name, v string) (time.Time, bool, error) {
	if v == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %s debe ser RFC3339 o YYYY-MM-DD", domain.ErrInvalidInput, name)
}
