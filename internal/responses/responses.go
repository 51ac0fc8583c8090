// Package responses escribe los sobres JSON de la API:
// éxito {message, <entidad>} y error {error, details?}.
package responses

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"laily-api/internal/apperr"
)

// JSON responde con message más los campos de la entidad
func JSON(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error aborta la petición con el código que corresponde al tipo de error.
// Un error que no es *apperr.Error se trata como interno.
func Error(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("unexpected error", err)
	}

	body := gin.H{"error": appErr.Error()}
	switch {
	case appErr.Details != nil:
		body["details"] = appErr.Details
	case appErr.Kind == apperr.KindInternal && appErr.Err != nil:
		body["details"] = appErr.Err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Kind.Status(), body)
}

// FieldError describe un campo rechazado por el validador de gin
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// BindError traduce los fallos de ShouldBindJSON a un error de validación
func BindError(err error) error {
	var (
		verrs     validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return apperr.ValidationDetails("invalid request body", details)
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	case errors.As(err, &syntaxErr):
		return apperr.ValidationDetails("malformed JSON", syntaxErr.Error())
	case errors.As(err, &typeErr):
		return apperr.ValidationDetails("invalid field type", gin.H{"field": typeErr.Field, "expected": typeErr.Type.String()})
	default:
		return apperr.ValidationDetails("invalid request body", err.Error())
	}
}

// UseJSONFieldNames hace que los errores de validación usen el nombre JSON del campo
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}
