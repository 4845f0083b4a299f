package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/scheduling"
)

// SchedulingHandler empleados, turnos y planificación.
type SchedulingHandler struct {
	employees *scheduling.EmployeeUseCase
	shifts    *scheduling.ShiftUseCase
	schedules *scheduling.ScheduleUseCase
}

func NewSchedulingHandler(employees *scheduling.EmployeeUseCase, shifts *scheduling.ShiftUseCase, schedules *scheduling.ScheduleUseCase) *SchedulingHandler {
	return &SchedulingHandler{employees: employees, shifts: shifts, schedules: schedules}
}

// CreateEmployee godoc
// @Summary      Crear empleado
// @Tags         employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmployeeRequest  true  "Datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      409   {object}  dto.ErrorResponse  "documento ya registrado"
// @Router       /api/employees [post]
func (h *SchedulingHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.employees.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SchedulingHandler) GetEmployee(c *fiber.Ctx) error {
	out, err := h.employees.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListEmployees godoc
// @Summary      Listar empleados
// @Tags         employees
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activos"
// @Success      200     {array}  dto.EmployeeResponse
// @Router       /api/employees [get]
func (h *SchedulingHandler) ListEmployees(c *fiber.Ctx) error {
	out, err := h.employees.List(c.UserContext(), GetTenantID(c), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SchedulingHandler) UpdateEmployee(c *fiber.Ctx) error {
	var in dto.EmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.employees.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SchedulingHandler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateShift godoc
// @Summary      Crear turno
// @Description  Horas HH:MM; un término menor al inicio cruza la medianoche.
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShiftRequest  true  "Nombre, inicio y término"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shifts [post]
func (h *SchedulingHandler) CreateShift(c *fiber.Ctx) error {
	var in dto.ShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.shifts.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SchedulingHandler) GetShift(c *fiber.Ctx) error {
	out, err := h.shifts.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SchedulingHandler) ListShifts(c *fiber.Ctx) error {
	out, err := h.shifts.List(c.UserContext(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SchedulingHandler) UpdateShift(c *fiber.Ctx) error {
	var in dto.ShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.shifts.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteShift 409 CONFLICT si el turno tiene asignaciones.
func (h *SchedulingHandler) DeleteShift(c *fiber.Ctx) error {
	if err := h.shifts.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignSchedule godoc
// @Summary      Asignar turno a un empleado
// @Description  Un turno por empleado y día; los empleados inactivos no se programan.
// @Tags         schedules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduleRequest  true  "Empleado, turno y fecha"
// @Success      201   {object}  dto.ScheduleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/schedules [post]
func (h *SchedulingHandler) AssignSchedule(c *fiber.Ctx) error {
	var in dto.ScheduleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.schedules.Assign(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSchedules godoc
// @Summary      Planificación del rango con horas por empleado
// @Tags         schedules
// @Security     Bearer
// @Produce      json
// @Param        employee_id  query  string  false  "Empleado"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD). Default: lunes de esta semana."
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD). Default: from + 6 días."
// @Success      200  {object}  dto.ScheduleListResponse
// @Router       /api/schedules [get]
func (h *SchedulingHandler) ListSchedules(c *fiber.Ctx) error {
	var in dto.ScheduleListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.schedules.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SchedulingHandler) DeleteSchedule(c *fiber.Ctx) error {
	if err := h.schedules.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
