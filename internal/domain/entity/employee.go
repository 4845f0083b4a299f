package entity

import (
	"fmt"
	"time"
)

// Employee trabajador de la tienda.
type Employee struct {
	ID         string
	TenantID   string
	Name       string
	DocumentID string // RUT/cédula, único por tenant
	Position   string
	Email      string
	Phone      string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Shift turno con horario "HH:MM". End < Start indica turno nocturno.
type Shift struct {
	ID        string
	TenantID  string
	Name      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseClock convierte "HH:MM" a minutos desde medianoche.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("hora inválida %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DurationMinutes duración del turno; cruza medianoche si End < Start.
func (s *Shift) DurationMinutes() (int, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return 0, err
	}
	if start == end {
		return 0, fmt.Errorf("turno sin duración")
	}
	if end < start {
		end += 24 * 60
	}
	return end - start, nil
}

// Schedule asignación de un empleado a un turno en una fecha (una por empleado y día).
type Schedule struct {
	ID         string
	TenantID   string
	EmployeeID string
	ShiftID    string
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
}
