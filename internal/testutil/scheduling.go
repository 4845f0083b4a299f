package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// Employees repositorio de empleados.
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{s} }

type employeeRepo struct{ s *Store }

func (r *employeeRepo) unique(e *entity.Employee) error {
	for _, x := range r.s.d.employees.all() {
		if x.ID != e.ID && x.TenantID == e.TenantID && x.DocumentID == e.DocumentID {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.unique(e); err != nil {
		return err
	}
	r.s.d.employees.put(e.ID, *e)
	return nil
}

func (r *employeeRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.d.employees.get(id)
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	return &e, nil
}

func (r *employeeRepo) GetByDocument(_ context.Context, tenantID, documentID string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.employees.all() {
		if e.TenantID == tenantID && e.DocumentID == documentID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *employeeRepo) List(_ context.Context, tenantID string, onlyActive bool) ([]*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.s.d.employees.all() {
		if e.TenantID == tenantID && (!onlyActive || e.Active) {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *employeeRepo) Update(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.employees.get(e.ID)
	if !ok || cur.TenantID != e.TenantID {
		return domain.ErrNotFound
	}
	if err := r.unique(e); err != nil {
		return err
	}
	r.s.d.employees.put(e.ID, *e)
	return nil
}

func (r *employeeRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.d.employees.get(id)
	if !ok || e.TenantID != tenantID {
		return domain.ErrNotFound
	}
	for _, sc := range r.s.d.schedules.all() {
		if sc.EmployeeID == id {
			r.s.d.schedules.del(sc.ID)
		}
	}
	r.s.d.employees.del(id)
	return nil
}

// Shifts repositorio de turnos.
func (s *Store) Shifts() repository.ShiftRepository { return &shiftRepo{s} }

type shiftRepo struct{ s *Store }

func (r *shiftRepo) Create(_ context.Context, sh *entity.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.shifts.put(sh.ID, *sh)
	return nil
}

func (r *shiftRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.d.shifts.get(id)
	if !ok || sh.TenantID != tenantID {
		return nil, nil
	}
	return &sh, nil
}

func (r *shiftRepo) List(_ context.Context, tenantID string) ([]*entity.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Shift
	for _, sh := range r.s.d.shifts.all() {
		if sh.TenantID == tenantID {
			out = append(out, &sh)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *shiftRepo) Update(_ context.Context, sh *entity.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.shifts.get(sh.ID)
	if !ok || cur.TenantID != sh.TenantID {
		return domain.ErrNotFound
	}
	r.s.d.shifts.put(sh.ID, *sh)
	return nil
}

func (r *shiftRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sh, ok := r.s.d.shifts.get(id)
	if !ok || sh.TenantID != tenantID {
		return domain.ErrNotFound
	}
	for _, sc := range r.s.d.schedules.all() {
		if sc.ShiftID == id {
			return domain.ErrConflict
		}
	}
	r.s.d.shifts.del(id)
	return nil
}

// Schedules repositorio de la planificación.
func (s *Store) Schedules() repository.ScheduleRepository { return &scheduleRepo{s} }

type scheduleRepo struct{ s *Store }

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (r *scheduleRepo) Create(_ context.Context, sc *entity.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.schedules.all() {
		if x.EmployeeID == sc.EmployeeID && sameDay(x.Date, sc.Date) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.schedules.put(sc.ID, *sc)
	return nil
}

func (r *scheduleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.d.schedules.get(id)
	if !ok || sc.TenantID != tenantID {
		return nil, nil
	}
	return &sc, nil
}

func (r *scheduleRepo) GetByEmployeeAndDate(_ context.Context, tenantID, employeeID string, date time.Time) (*entity.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sc := range r.s.d.schedules.all() {
		if sc.TenantID == tenantID && sc.EmployeeID == employeeID && sameDay(sc.Date, date) {
			return &sc, nil
		}
	}
	return nil, nil
}

func (r *scheduleRepo) List(_ context.Context, tenantID string, f repository.ScheduleFilter) ([]*entity.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	from, to := f.From, f.To
	var out []*entity.Schedule
	for _, sc := range r.s.d.schedules.all() {
		if sc.TenantID != tenantID || (f.EmployeeID != "" && sc.EmployeeID != f.EmployeeID) {
			continue
		}
		if !inRange(sc.Date, &from, &to) {
			continue
		}
		out = append(out, &sc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *scheduleRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.d.schedules.get(id)
	if !ok || sc.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.d.schedules.del(id)
	return nil
}
