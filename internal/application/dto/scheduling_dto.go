package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeRequest alta/edición de empleado.
type EmployeeRequest struct {
	Name       string `json:"name"`
	DocumentID string `json:"document_id"`
	Position   string `json:"position"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Active     *bool  `json:"active"`
}

// EmployeeResponse salida de empleado.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DocumentID string    `json:"document_id"`
	Position   string    `json:"position"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShiftRequest alta/edición de turno.
type ShiftRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

// ShiftResponse salida de turno con duración derivada.
type ShiftResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	DurationHours decimal.Decimal `json:"duration_hours"`
	Overnight     bool            `json:"overnight"`
}

// ScheduleRequest asignación de turno.
type ScheduleRequest struct {
	EmployeeID string `json:"employee_id"`
	ShiftID    string `json:"shift_id"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`
}

// ScheduleResponse asignación con nombres resueltos.
type ScheduleResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	ShiftID      string `json:"shift_id"`
	ShiftName    string `json:"shift_name"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes"`
}

// ScheduleListRequest rango de fechas (inclusive).
type ScheduleListRequest struct {
	EmployeeID string `query:"employee_id"`
	From       string `query:"from"`
	To         string `query:"to"`
}

// EmployeeHoursDTO horas planificadas de un empleado en una semana (lunes a domingo).
type EmployeeHoursDTO struct {
	WeekStart    string          `json:"week_start"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Shifts       int             `json:"shifts"`
	Hours        decimal.Decimal `json:"hours"`
}

// ScheduleListResponse planificación del rango con totales semanales por empleado.
type ScheduleListResponse struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Schedules []ScheduleResponse `json:"schedules"`
	Totals    []EmployeeHoursDTO `json:"totals"`
}
