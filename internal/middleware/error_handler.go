package middleware

import (
	"fmt"
	"net/http"
	"time"

	"catalogo/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders the last error attached to the context with c.Error.
// The full cause is always logged; clients get the generic message, plus the
// raw cause only when exposeDetail is set.
func ErrorHandler(exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		apiErr := apierror.From(c.Errors.Last().Err)

		level := zerolog.ErrorLevel
		switch apiErr.Kind {
		case apierror.KindValidacion, apierror.KindNoEncontrado, apierror.KindMetodoNoPermitido:
			level = zerolog.WarnLevel
		}
		ev := log.WithLevel(level).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("kind", apiErr.Kind.String())
		if apiErr.Err != nil {
			ev = ev.Err(apiErr.Err)
		}
		if len(apiErr.Fields) > 0 {
			ev = ev.Interface("fields", apiErr.Fields)
		}
		ev.Msg(apiErr.Message)

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(apiErr.Kind.Status(), apierror.Envelope(apiErr, exposeDetail))
	}
}

// Recovery handles panics and converts them into 500 responses.
// Stack traces are never sent to clients; the panic value is added as
// detail only when exposeDetail is set.
func Recovery(exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recovered")
				body := apierror.New(apierror.MensajeInterno)
				if exposeDetail {
					body.Detail = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// MetodoNoPermitido is the NoMethod handler: the path exists but not for this verb.
func MetodoNoPermitido() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apierror.MetodoNoPermitido())
	}
}

// RutaNoEncontrada is the NoRoute handler.
func RutaNoEncontrada() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apierror.NoEncontrado("Recurso no encontrado."))
	}
}
