// Package sqlerr classifies errors coming back from the database driver so the
// service layer can tell an engine refusal (constraint, bad data) from the
// store being unreachable, without string matching on driver messages.
package sqlerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"catalogo/internal/apierror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is the category of a database failure.
type Code int

const (
	Other Code = iota
	Connection
	ForeignKeyViolation
	UniqueViolation
	NotNullViolation
	CheckViolation
	DataException
)

func (c Code) String() string {
	switch c {
	case Connection:
		return "connection"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case UniqueViolation:
		return "unique_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	case DataException:
		return "data_exception"
	default:
		return "other"
	}
}

// MensajeConexion is shown when the store cannot be reached.
const MensajeConexion = "Error de conexión a la base de datos."

// MapCode maps a PostgreSQL SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	}
	switch {
	case strings.HasPrefix(sqlstate, "22"):
		return DataException
	case strings.HasPrefix(sqlstate, "08"), strings.HasPrefix(sqlstate, "57P"):
		// connection exception / operator intervention (admin shutdown, crash)
		return Connection
	}
	return Other
}

// Classify reports the Code of err. A *pgconn.PgError means the server
// answered; anything network shaped means it did not.
func Classify(err error) Code {
	if err == nil {
		return Other
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	if IsConnection(err) {
		return Connection
	}
	return Other
}

// IsConnection reports whether err means the store was unreachable.
func IsConnection(err error) bool {
	if SinConexion(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}

// SinConexion reports whether err happened before any connection was
// obtained, so no statement reached the server.
func SinConexion(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn)
}

// MensajeConexionPerdida is shown when the connection drops while a write is
// in flight.
const MensajeConexionPerdida = "Se perdió la conexión con la base de datos durante la operación."

// Escritura converts a failed write into a typed API error.
//
// The engine refusing the statement, or the connection dropping after it was
// sent, is an execution failure (503) with the message from msgs for that
// Code, or fallback. Failing to connect at all or an unknown failure is an
// infrastructure failure (500).
func Escritura(err error, fallback string, msgs map[Code]string) *apierror.Error {
	if SinConexion(err) {
		return apierror.Infraestructura(MensajeConexion, err)
	}
	code := Classify(err)
	msg := fallback
	switch code {
	case Connection:
		msg = MensajeConexionPerdida
	case Other:
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return apierror.Infraestructura(apierror.MensajeInterno, err)
		}
	}
	if m, ok := msgs[code]; ok {
		msg = m
	}
	return apierror.Ejecucion(msg, err)
}

// Lectura converts a failed read into a typed API error. Reads never report
// execution failures: whatever went wrong, the caller gets a 500.
func Lectura(err error, msg string) *apierror.Error {
	if IsConnection(err) {
		return apierror.Infraestructura(MensajeConexion, err)
	}
	return apierror.Infraestructura(msg, err)
}
