package handler

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"

	"catalogo/internal/apierror"
	"catalogo/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = validator.New()

func init() {
	// Register dto.DecimalFlexible as a numeric type so tags like gte=0 work
	// without panicking ("Bad field type").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(dto.DecimalFlexible); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, dto.DecimalFlexible{})

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

const (
	mensajeJSONInvalido   = "Formato JSON inválido o cuerpo vacío."
	mensajeDatosInvalidos = "Datos inválidos."
)

// bindAndValidate decodes the JSON body into req and runs the validator tags.
// A body that is absent or fails a required/notblank rule is reported with
// incompleto; other rule failures with a generic message. The returned error
// is always a validation *apierror.Error.
func bindAndValidate(c *gin.Context, req interface{}, incompleto string) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.Validacion(incompleto, nil)
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return apierror.Validacion(mensajeJSONInvalido, nil)
		case errors.As(err, &typeErr):
			return apierror.Validacion(mensajeDatosInvalidos, map[string]string{typeErr.Field: "type"})
		}
		return apierror.Validacion(mensajeJSONInvalido, nil)
	}
	return validar(req, incompleto)
}

func validar(req interface{}, incompleto string) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.Infraestructura(apierror.MensajeInterno, err)
	}
	msg := mensajeDatosInvalidos
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			msg = incompleto
		}
	}
	return apierror.Validacion(msg, fields)
}

// queryID parses a positive integer id from the query string.
func queryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindEliminar reads the id of a delete request from the JSON body, falling
// back to ?id= when the body is empty.
func bindEliminar(c *gin.Context, incompleto string) (int64, error) {
	var req dto.EliminarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			return 0, apierror.Validacion(mensajeJSONInvalido, nil)
		}
		if id, ok := queryID(c); ok {
			return id, nil
		}
		return 0, apierror.Validacion(incompleto, map[string]string{"id": "required"})
	}
	if err := validar(&req, incompleto); err != nil {
		return 0, err
	}
	return req.ID.Int64(), nil
}

// fail hands err to middleware.ErrorHandler, which logs it and writes the
// error envelope.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
