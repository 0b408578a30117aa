// Package tenancy define el particionamiento por tienda de los datos compartidos.
//
// Toda consulta a una colección particionada (productos, ventas, ajustes,
// usuarios de una tienda) recibe un Scope. No existe forma de construir un
// Scope vacío: el filtro por tienda es obligatorio.
package tenancy

import (
	"fmt"

	"github.com/jhoicas/tiendapp-api/internal/domain"
)

// Scope identifica la partición (tienda) del llamador.
type Scope struct {
	storeID string
}

// NewScope construye un Scope para la tienda indicada. storeID vacío es un error.
func NewScope(storeID string) (Scope, error) {
	if storeID == "" {
		return Scope{}, fmt.Errorf("%w: store_id requerido para el scope", domain.ErrInvalidInput)
	}
	return Scope{storeID: storeID}, nil
}

// MustScope es como NewScope pero entra en pánico con storeID vacío (tests y jobs internos).
func MustScope(storeID string) Scope {
	s, err := NewScope(storeID)
	if err != nil {
		panic(err)
	}
	return s
}

// StoreID devuelve el ID de la tienda del scope.
func (s Scope) StoreID() string { return s.storeID }

// IsZero informa si el scope no fue inicializado con NewScope.
func (s Scope) IsZero() bool { return s.storeID == "" }

// Owned lo implementan las entidades que pertenecen a exactamente una tienda.
type Owned interface {
	OwnerStoreID() string
}

// CheckOwner verifica que un registro obtenido por ID pertenezca al scope.
// Un registro ausente o de otra tienda devuelve ErrNotFound (nunca ErrForbidden),
// para no confirmar su existencia a quien no debe verlo.
func CheckOwner[T Owned](s Scope, rec T, found bool) (T, error) {
	var zero T
	if s.IsZero() {
		return zero, fmt.Errorf("%w: scope sin inicializar", domain.ErrInvalidInput)
	}
	if !found || rec.OwnerStoreID() != s.storeID {
		return zero, domain.ErrNotFound
	}
	return rec, nil
}
