package notifier

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/jhoicas/tiendapp-api/internal/application/jobs"
)

var _ jobs.Notifier = (*Throttled)(nil)

// Throttled limita el ritmo de envíos hacia el notificador envuelto (NOTIFY_RATE_PER_SEC).
// Es seguro para uso concurrente: ambos trabajos comparten el mismo limitador.
type Throttled struct {
	next    jobs.Notifier
	limiter *rate.Limiter
}

// NewThrottled envuelve next con un límite de perSecond envíos por segundo.
func NewThrottled(next jobs.Notifier, perSecond float64) *Throttled {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Send espera turno en el limitador y delega. Si el contexto vence antes, devuelve su error.
func (t *Throttled) Send(ctx context.Context, msg jobs.Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notifier: esperando turno: %w", err)
	}
	return t.next.Send(ctx, msg)
}
