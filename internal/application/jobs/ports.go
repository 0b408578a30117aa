// Package jobs contiene los trabajos programados (aviso de vencimiento de suscripción y
// resumen diario) y el disparador que los ejecuta al recibir el secreto compartido.
package jobs

import "context"

// Message aviso a entregar por el Notifier.
type Message struct {
	Kind      string
	Recipient string
	Subject   string
	Body      string
}

// Notifier entrega avisos (email, push, log...).
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Job trabajo programado que devuelve cuántos avisos envió.
type Job interface {
	Name() string
	Run(ctx context.Context) (sent int, err error)
}

// Observer recibe métricas de cada ejecución.
type Observer interface {
	ObserveJob(job string, sent int, err error)
}
