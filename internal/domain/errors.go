package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce a códigos de estado en un único punto (http.ErrorHandler).
var (
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// ErrSubscriptionExpired es un caso particular de ErrForbidden:
	// errors.Is(ErrSubscriptionExpired, ErrForbidden) == true.
	ErrSubscriptionExpired = fmt.Errorf("%w: suscripción vencida", ErrForbidden)

	// ErrNotProvisioned es un caso particular de ErrUnauthenticated (usuario sin tienda asignada).
	ErrNotProvisioned = fmt.Errorf("%w: cuenta sin tienda asignada", ErrUnauthenticated)
)
