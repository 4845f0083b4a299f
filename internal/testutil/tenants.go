package testutil

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// Tenants repositorio de tenants.
func (s *Store) Tenants() repository.TenantRepository { return &tenantRepo{s} }

type tenantRepo struct{ s *Store }

func (r *tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.tenants.get(t.ID); ok {
		return domain.ErrDuplicate
	}
	r.s.d.tenants.put(t.ID, *t)
	return nil
}

func (r *tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.d.tenants.get(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *tenantRepo) List(_ context.Context, p repository.Page) ([]*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.s.d.tenants.all() {
		out = append(out, &t)
	}
	return page(out, p), nil
}

func (r *tenantRepo) ActivateModules(_ context.Context, tenantID string, modules []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range modules {
		r.s.d.modules.put(tenantID+"/"+m, entity.TenantModule{TenantID: tenantID, ModuleName: m, IsActive: true})
	}
	return nil
}

func (r *tenantRepo) HasActiveModule(_ context.Context, tenantID, module string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.d.modules.get(tenantID + "/" + module)
	return ok && m.IsActive, nil
}

// DeactivateModule desactiva un módulo (solo tests).
func (s *Store) DeactivateModule(tenantID, module string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.d.modules.get(tenantID + "/" + module); ok {
		m.IsActive = false
		s.d.modules.put(tenantID+"/"+module, m)
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.users.all() {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users.put(u.ID, *u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.d.users.get(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users.all() {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.d.users.all() {
		if u.TenantID == tenantID {
			out = append(out, &u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetUserStatus cambia el estado de un usuario (solo tests).
func (s *Store) SetUserStatus(userID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.d.users.get(userID); ok {
		u.Status = status
		s.d.users.put(userID, u)
	}
}
