package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var sixty = decimal.NewFromInt(60)

// ShiftUseCase CRUD de turnos. Un turno con término menor al inicio cruza la medianoche.
type ShiftUseCase struct {
	repo repository.ShiftRepository
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(repo repository.ShiftRepository) *ShiftUseCase {
	return &ShiftUseCase{repo: repo}
}

func (uc *ShiftUseCase) Create(ctx context.Context, tenantID string, in dto.ShiftRequest) (*dto.ShiftResponse, error) {
	now := time.Now()
	s := &entity.Shift{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(in.Name),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := validateShift(s); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

func (uc *ShiftUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ShiftResponse, error) {
	s, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

func (uc *ShiftUseCase) List(ctx context.Context, tenantID string) ([]dto.ShiftResponse, error) {
	list, err := uc.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShiftResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toShiftResponse(s))
	}
	return out, nil
}

func (uc *ShiftUseCase) Update(ctx context.Context, tenantID, id string, in dto.ShiftRequest) (*dto.ShiftResponse, error) {
	s, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		s.Name = v
	}
	if v := strings.TrimSpace(in.StartTime); v != "" {
		s.StartTime = v
	}
	if v := strings.TrimSpace(in.EndTime); v != "" {
		s.EndTime = v
	}
	if err := validateShift(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toShiftResponse(s), nil
}

// Delete ErrConflict si el turno tiene asignaciones.
func (uc *ShiftUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

func (uc *ShiftUseCase) get(ctx context.Context, tenantID, id string) (*entity.Shift, error) {
	s, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// validateShift exige horas válidas y distintas, y las deja en formato HH:MM.
func validateShift(s *entity.Shift) error {
	if _, err := s.DurationMinutes(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	start, _ := entity.ParseClock(s.StartTime)
	end, _ := entity.ParseClock(s.EndTime)
	s.StartTime = clock(start)
	s.EndTime = clock(end)
	return nil
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// shiftHours duración en horas con dos decimales. El turno ya fue validado al guardarse.
func shiftHours(s *entity.Shift) decimal.Decimal {
	minutes, err := s.DurationMinutes()
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}

func toShiftResponse(s *entity.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:            s.ID,
		Name:          s.Name,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		DurationHours: shiftHours(s),
		Overnight:     s.EndTime < s.StartTime,
	}
}
