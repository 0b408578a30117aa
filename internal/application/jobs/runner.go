package jobs

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

// Claves de Result.Failures.
const (
	JobSubscriptions = "subscriptions"
	JobBriefs        = "briefs"
)

// Result resultado de una ejecución del cron. Un contador es nil si su trabajo falló.
type Result struct {
	SubsSent   *int
	BriefsSent *int
	Failures   map[string]string
}

// Success informa si ambos trabajos terminaron sin error.
func (r Result) Success() bool { return len(r.Failures) == 0 }

// Runner valida el secreto y ejecuta ambos trabajos en paralelo.
type Runner struct {
	secret   string
	subs     Job
	briefs   Job
	log      *logger.Logger
	observer Observer
}

// NewRunner construye el disparador. secret vacío deshabilita el cron (siempre 401).
func NewRunner(secret string, subs, briefs Job, log *logger.Logger, observer Observer) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{secret: secret, subs: subs, briefs: briefs, log: log, observer: observer}
}

// RunScheduledJobs compara el secreto en tiempo constante y, si coincide, ejecuta los dos
// trabajos concurrentemente. El fallo de uno no cancela al otro. Con secreto incorrecto
// devuelve domain.ErrUnauthenticated sin ejecutar nada.
func (r *Runner) RunScheduledJobs(ctx context.Context, presented string) (Result, error) {
	if r.secret == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(r.secret)) != 1 {
		return Result{}, fmt.Errorf("%w: secreto de cron inválido", domain.ErrUnauthenticated)
	}

	type jobResult struct {
		sent int
		err  error
	}
	subsCh := make(chan jobResult, 1)
	briefsCh := make(chan jobResult, 1)

	go func() {
		n, err := r.run(ctx, r.subs)
		subsCh <- jobResult{n, err}
	}()
	go func() {
		n, err := r.run(ctx, r.briefs)
		briefsCh <- jobResult{n, err}
	}()

	subs := <-subsCh
	briefs := <-briefsCh

	res := Result{Failures: map[string]string{}}
	if subs.err != nil {
		res.Failures[JobSubscriptions] = "no se pudieron enviar los avisos de suscripción"
	} else {
		res.SubsSent = &subs.sent
	}
	if briefs.err != nil {
		res.Failures[JobBriefs] = "no se pudieron enviar los resúmenes diarios"
	} else {
		res.BriefsSent = &briefs.sent
	}
	return res, nil
}

// run ejecuta un trabajo aislando pánicos para que no tumben al otro.
func (r *Runner) run(ctx context.Context, job Job) (sent int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("jobs: %s: panic: %v", job.Name(), rec)
		}
		if err != nil {
			r.log.Error().Err(err).Str("job", job.Name()).Int("sent", sent).Msg("trabajo programado falló")
		} else {
			r.log.Info().Str("job", job.Name()).Int("sent", sent).Msg("trabajo programado completado")
		}
		if r.observer != nil {
			r.observer.ObserveJob(job.Name(), sent, err)
		}
	}()
	return job.Run(ctx)
}
