package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar módulos.
// Lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error)
}

// RequireModule verifica que el tenant del token tenga el módulo activo.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 403 MODULE_DISABLED si el módulo no está contratado o venció.
//   - 503 MODULE_CHECK_FAILED ante un fallo al consultar la DB.
func RequireModule(moduleName string, checker moduleChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetTenantID(c)
		if tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "tenant_id no encontrado en el token",
			})
		}

		active, err := checker.HasActiveModule(c.UserContext(), tenantID, moduleName)
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenantID).Str("module", moduleName).Msg("verificación de módulo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleName + "' no está activo para esta tienda",
			})
		}
		return c.Next()
	}
}
