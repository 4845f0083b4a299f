package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const tenantID = "tenant-1"

type fixture struct {
	employees *EmployeeUseCase
	shifts    *ShiftUseCase
	schedules *ScheduleUseCase
}

func newFixture() *fixture {
	store := testutil.NewStore()
	return &fixture{
		employees: NewEmployeeUseCase(store.Employees()),
		shifts:    NewShiftUseCase(store.Shifts()),
		schedules: NewScheduleUseCase(store.Schedules(), store.Employees(), store.Shifts(), logger.Nop()),
	}
}

func boolPtr(b bool) *bool { return &b }

func TestEmployee_DocumentoUnico(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ana, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Ana Pérez", DocumentID: "12.345.678-9", Position: "Cajera"})
	require.NoError(t, err)
	assert.True(t, ana.Active)

	_, err = f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Otra", DocumentID: "12.345.678-9"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.employees.Create(ctx, "otro-tenant", dto.EmployeeRequest{Name: "Otra", DocumentID: "12.345.678-9"})
	assert.NoError(t, err, "el documento es único por tenant")

	_, err = f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Sin documento"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	luis, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Luis", DocumentID: "9.876.543-2"})
	require.NoError(t, err)
	_, err = f.employees.Update(ctx, tenantID, luis.ID, dto.EmployeeRequest{DocumentID: "12.345.678-9"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := f.employees.Update(ctx, tenantID, luis.ID, dto.EmployeeRequest{Position: "Bodeguero", Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Bodeguero", updated.Position)
	assert.False(t, updated.Active)

	active, err := f.employees.List(ctx, tenantID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ana Pérez", active[0].Name)
}

func TestShift_DuracionYNocturno(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		start, end string
		hours      string
		overnight  bool
	}{
		{"08:00", "16:30", "8.5", false},
		{"22:00", "06:00", "8", true},
		{"9:15", "13:00", "3.75", false},
	}
	for _, tt := range tests {
		s, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "T", StartTime: tt.start, EndTime: tt.end})
		require.NoError(t, err)
		assert.True(t, s.DurationHours.Equal(decimal.RequireFromString(tt.hours)), "%s-%s: %s", tt.start, tt.end, s.DurationHours)
		assert.Equal(t, tt.overnight, s.Overnight)
	}

	s, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Mañana", StartTime: "9:15", EndTime: "13:00"})
	require.NoError(t, err)
	assert.Equal(t, "09:15", s.StartTime, "se normaliza a HH:MM")
}

func TestShift_Validaciones(t *testing.T) {
	f := newFixture()
	cases := map[string]dto.ShiftRequest{
		"sin nombre":       {StartTime: "08:00", EndTime: "16:00"},
		"inicio igual fin": {Name: "T", StartTime: "08:00", EndTime: "08:00"},
		"hora inválida":    {Name: "T", StartTime: "25:00", EndTime: "08:00"},
		"formato":          {Name: "T", StartTime: "8am", EndTime: "16:00"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.shifts.Create(context.Background(), tenantID, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSchedule_AsignarListarYTotales(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Ana", DocumentID: "1"})
	require.NoError(t, err)
	beto, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Beto", DocumentID: "2"})
	require.NoError(t, err)
	day, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Día", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)
	night, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Noche", StartTime: "22:00", EndTime: "07:30"})
	require.NoError(t, err)

	for _, req := range []dto.ScheduleRequest{
		{EmployeeID: ana.ID, ShiftID: day.ID, Date: "2026-03-02"},
		{EmployeeID: ana.ID, ShiftID: night.ID, Date: "2026-03-03"},
		{EmployeeID: beto.ID, ShiftID: day.ID, Date: "2026-03-02"},
		{EmployeeID: beto.ID, ShiftID: day.ID, Date: "2026-03-10"},
	} {
		_, err := f.schedules.Assign(ctx, tenantID, req)
		require.NoError(t, err)
	}

	_, err = f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: ana.ID, ShiftID: night.ID, Date: "2026-03-02"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "un turno por empleado y día")

	week, err := f.schedules.List(ctx, tenantID, dto.ScheduleListRequest{From: "2026-03-02"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", week.To)
	require.Len(t, week.Schedules, 3)
	assert.Equal(t, "Noche", week.Schedules[2].ShiftName)
	require.Len(t, week.Totals, 2)
	assert.Equal(t, "2026-03-02", week.Totals[0].WeekStart)
	assert.Equal(t, "Ana", week.Totals[0].EmployeeName)
	assert.Equal(t, 2, week.Totals[0].Shifts)
	assert.True(t, week.Totals[0].Hours.Equal(decimal.RequireFromString("17.5")))
	assert.True(t, week.Totals[1].Hours.Equal(decimal.RequireFromString("8")))

	onlyBeto, err := f.schedules.List(ctx, tenantID, dto.ScheduleListRequest{EmployeeID: beto.ID, From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)
	assert.Len(t, onlyBeto.Schedules, 2)
}

func TestSchedule_TotalesPorSemana(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Ana", DocumentID: "1"})
	require.NoError(t, err)
	beto, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Beto", DocumentID: "2"})
	require.NoError(t, err)
	day, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Día", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)

	// 2026-03-08 es domingo: cae en la semana del 2 de marzo
	for _, a := range []struct{ emp, date string }{
		{ana.ID, "2026-03-02"}, {ana.ID, "2026-03-08"}, {ana.ID, "2026-03-09"},
		{beto.ID, "2026-03-04"}, {ana.ID, "2026-03-17"},
	} {
		_, err := f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: a.emp, ShiftID: day.ID, Date: a.date})
		require.NoError(t, err)
	}

	month, err := f.schedules.List(ctx, tenantID, dto.ScheduleListRequest{From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, month.Schedules, 5)

	type row struct {
		week, name string
		shifts     int
		hours      string
	}
	want := []row{
		{"2026-03-02", "Ana", 2, "16"},
		{"2026-03-02", "Beto", 1, "8"},
		{"2026-03-09", "Ana", 1, "8"},
		{"2026-03-16", "Ana", 1, "8"},
	}
	require.Len(t, month.Totals, len(want))
	for i, w := range want {
		got := month.Totals[i]
		assert.Equal(t, w.week, got.WeekStart)
		assert.Equal(t, w.name, got.EmployeeName)
		assert.Equal(t, w.shifts, got.Shifts)
		assert.True(t, got.Hours.Equal(decimal.RequireFromString(w.hours)), "%s %s: %s", w.week, w.name, got.Hours)
	}
}

func TestSchedule_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inactive, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Carla", DocumentID: "3", Active: boolPtr(false)})
	require.NoError(t, err)
	shift, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Día", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)

	_, err = f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: inactive.ID, ShiftID: shift.ID, Date: "2026-03-02"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: "x", ShiftID: shift.ID, Date: "2026-03-02"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: inactive.ID, ShiftID: shift.ID, Date: "02-03-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.schedules.List(ctx, tenantID, dto.ScheduleListRequest{From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.schedules.List(ctx, tenantID, dto.ScheduleListRequest{From: "2026-01-01", To: "2026-12-31"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedule_BorrarTurnoAsignadoEsConflicto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	emp, err := f.employees.Create(ctx, tenantID, dto.EmployeeRequest{Name: "Ana", DocumentID: "1"})
	require.NoError(t, err)
	shift, err := f.shifts.Create(ctx, tenantID, dto.ShiftRequest{Name: "Día", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)
	sc, err := f.schedules.Assign(ctx, tenantID, dto.ScheduleRequest{EmployeeID: emp.ID, ShiftID: shift.ID, Date: "2026-03-02"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.shifts.Delete(ctx, tenantID, shift.ID), domain.ErrConflict)
	require.NoError(t, f.schedules.Delete(ctx, tenantID, sc.ID))
	assert.NoError(t, f.shifts.Delete(ctx, tenantID, shift.ID))
	assert.ErrorIs(t, f.schedules.Delete(ctx, tenantID, sc.ID), domain.ErrNotFound)
}

func TestWeekStart(t *testing.T) {
	// 2026-03-05 es jueves
	got := weekStart(time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-02", dto.FormatDate(got))
	got = weekStart(time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-02", dto.FormatDate(got), "domingo pertenece a la semana del lunes anterior")
}
