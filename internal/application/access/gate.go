// Package access implementa el gate de acceso multi-tenant: verificación del token,
// resolución de la tienda del llamador y chequeo de rol y suscripción.
//
// Cada request re-resuelve identidad y tienda; no hay caché de sesión.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/jhoicas/tiendapp-api/pkg/logger"
)

// Errores de credencial; ambos son casos de domain.ErrUnauthenticated.
var (
	ErrMissingToken = fmt.Errorf("%w: token requerido", domain.ErrUnauthenticated)
	ErrInvalidToken = fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthenticated)
)

// Resultados registrados por DecisionObserver.
const (
	OutcomeAllowed         = "allowed"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeNotProvisioned  = "not_provisioned"
	OutcomeForbiddenRole   = "forbidden_role"
	OutcomeExpired         = "subscription_expired"
	OutcomeError           = "error"
)

// IdentityVerifier verifica un bearer token contra el proveedor de identidad
// y devuelve el subject estable del usuario.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

// UserLookup resuelve la cuenta por subject. (nil, nil) si no existe.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// DecisionObserver recibe el resultado de cada decisión (métricas).
type DecisionObserver interface {
	ObserveDecision(outcome string)
}

// Policy requisitos de una ruta. Roles vacío = cualquier rol.
type Policy struct {
	Roles                     []string
	RequireActiveSubscription bool
}

// Principal identidad resuelta del llamador.
type Principal struct {
	SubjectID   string
	StoreID     string
	Role        string
	DisplayName string
	Email       string
}

// Scope devuelve el scope de tienda del principal. Solo tiene sentido tras Authorize.
func (p Principal) Scope() tenancy.Scope {
	return tenancy.MustScope(p.StoreID)
}

// HasRole informa si el principal tiene alguno de los roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Options parámetros del gate.
type Options struct {
	IdentityTimeout time.Duration
	QueryTimeout    time.Duration
	Now             func() time.Time
	Observer        DecisionObserver
}

// Gate punto único de autorización para todas las rutas protegidas.
type Gate struct {
	verifier IdentityVerifier
	users    UserLookup
	log      *logger.Logger
	opts     Options
}

// NewGate construye el gate.
func NewGate(verifier IdentityVerifier, users UserLookup, log *logger.Logger, opts Options) *Gate {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdentityTimeout <= 0 {
		opts.IdentityTimeout = 5 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{verifier: verifier, users: users, log: log, opts: opts}
}

// BearerToken extrae el token de un header "Authorization: Bearer <token>".
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Identify verifica la credencial y resuelve la cuenta sin exigir tienda, rol ni suscripción.
// Solo lo usa el onboarding: es la única ruta que admite cuentas sin aprovisionar.
func (g *Gate) Identify(ctx context.Context, authorization string) (*entity.User, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	vctx, cancel := context.WithTimeout(ctx, g.opts.IdentityTimeout)
	subject, err := g.verifier.Verify(vctx, token)
	cancel()
	if err != nil || subject == "" {
		g.log.Debug().Err(err).Msg("token rechazado por el verificador")
		return nil, ErrInvalidToken
	}

	uctx, cancel := context.WithTimeout(ctx, g.opts.QueryTimeout)
	user, err := g.users.GetByID(uctx, subject)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("access: resolver usuario: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: cuenta no registrada", domain.ErrUnauthenticated)
	}
	return user, nil
}

// Authorize aplica la cadena completa: credencial → usuario → tienda → rol → suscripción.
// Cualquier fallo cierra el acceso; no hay efectos secundarios aparte de la lectura del usuario.
func (g *Gate) Authorize(ctx context.Context, authorization string, policy Policy) (Principal, error) {
	p, err := g.authorize(ctx, authorization, policy)
	g.observe(err)
	return p, err
}

func (g *Gate) authorize(ctx context.Context, authorization string, policy Policy) (Principal, error) {
	user, err := g.Identify(ctx, authorization)
	if err != nil {
		return Principal{}, err
	}
	if user.StoreID == "" {
		return Principal{}, domain.ErrNotProvisioned
	}
	p := Principal{
		SubjectID:   user.ID,
		StoreID:     user.StoreID,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}
	if len(policy.Roles) > 0 && !p.HasRole(policy.Roles...) {
		g.log.Debug().Str("user_id", user.ID).Str("role", user.Role).Strs("allowed", policy.Roles).Msg("rol no permitido")
		return Principal{}, fmt.Errorf("%w: rol %q no permitido", domain.ErrForbidden, user.Role)
	}
	if policy.RequireActiveSubscription && !user.HasActiveSubscription(g.opts.Now()) {
		return Principal{}, domain.ErrSubscriptionExpired
	}
	return p, nil
}

func (g *Gate) observe(err error) {
	if g.opts.Observer == nil {
		return
	}
	g.opts.Observer.ObserveDecision(Outcome(err))
}

// Outcome clasifica el error de Authorize para métricas.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAllowed
	case errors.Is(err, domain.ErrNotProvisioned):
		return OutcomeNotProvisioned
	case errors.Is(err, domain.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case errors.Is(err, domain.ErrSubscriptionExpired):
		return OutcomeExpired
	case errors.Is(err, domain.ErrForbidden):
		return OutcomeForbiddenRole
	default:
		return OutcomeError
	}
}
