package service

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag and HTML-escapes what remains.
// bluemonday policies are safe for concurrent use once built.
var strictPolicy = bluemonday.StrictPolicy()

// sanitizar removes markup from free text before it is persisted.
func sanitizar(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// normalizarSKU trims the SKU and maps blank to nil so it is stored as NULL.
func normalizarSKU(sku *string, limpiar bool) *string {
	if sku == nil {
		return nil
	}
	v := strings.TrimSpace(*sku)
	if limpiar {
		v = sanitizar(v)
	}
	if v == "" {
		return nil
	}
	return &v
}

const mensajeLargoExcedido = "Datos inválidos: el texto supera la longitud permitida."

type campoTexto struct {
	nombre string
	valor  string
	max    int
}

// excedidos returns the fields whose sanitized text no longer fits its
// column, keyed by JSON name. Escaping can grow the input past the limit
// already checked on the raw request.
func excedidos(campos ...campoTexto) map[string]string {
	var fields map[string]string
	for _, c := range campos {
		if utf8.RuneCountInString(c.valor) <= c.max {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[c.nombre] = "max"
	}
	return fields
}
