package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tiendapp-api/internal/application/access"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
)

// JobTrigger lo implementa *jobs.Runner.
type JobTrigger interface {
	RunScheduledJobs(ctx context.Context, presented string) (jobs.Result, error)
}

// CronHandler disparador externo de los trabajos programados.
type CronHandler struct {
	runner JobTrigger
}

// NewCronHandler construye el handler.
func NewCronHandler(runner JobTrigger) *CronHandler {
	return &CronHandler{runner: runner}
}

// Run godoc
// @Summary      Ejecutar avisos de suscripción y resúmenes diarios
// @Description  Requiere Authorization: Bearer <CRON_SECRET>. Éxito parcial responde 200 con success=false.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  dto.CronResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/cron [get]
func (h *CronHandler) Run(c *fiber.Ctx) error {
	secret, err := access.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	res, err := h.runner.RunScheduledJobs(c.UserContext(), secret)
	if err != nil {
		return err
	}
	out := dto.CronResponse{
		Success:    res.Success(),
		SubsSent:   res.SubsSent,
		BriefsSent: res.BriefsSent,
	}
	if len(res.Failures) > 0 {
		out.Failures = res.Failures
	}
	return c.JSON(out)
}
