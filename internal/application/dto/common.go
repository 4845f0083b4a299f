package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
)

// DateLayout formato de fechas (sin hora) en requests y responses.
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica valores por defecto y topes a Limit/Offset.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateStatusRequest body para los PATCH .../status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ParseDate interpreta una fecha YYYY-MM-DD; vacío devuelve def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no tiene formato %s", domain.ErrInvalidInput, s, DateLayout)
	}
	return t, nil
}

// ParseOptionalDate como ParseDate pero devuelve nil si s está vacío.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate formatea una fecha como YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
