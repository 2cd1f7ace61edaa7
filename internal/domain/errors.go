package domain

import "errors"

// Kind clasifica los errores de dominio para que la frontera HTTP los traduzca a un status.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindConflict     Kind = "CONFLICT"
)

// Error es un fallo de dominio tipado (sin dependencias externas).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errores de dominio.
var (
	ErrUserNotFound    = newError(KindNotFound, "usuario no encontrado")
	ErrProductNotFound = newError(KindNotFound, "producto no encontrado")
	ErrItemNotInCart   = newError(KindNotFound, "producto no encontrado en el carrito")

	ErrInvalidInput       = newError(KindValidation, "entrada inválida")
	ErrInvalidQuantity    = newError(KindValidation, "la cantidad debe ser un entero positivo")
	ErrPasswordRequired   = newError(KindValidation, "la contraseña es obligatoria")
	ErrInvalidRole        = newError(KindValidation, "rol inválido")
	ErrEmailAlreadyExists = newError(KindValidation, "el email ya está registrado")
	ErrRunAlreadyExists   = newError(KindValidation, "el RUN ya está registrado")

	ErrInvalidCredentials = newError(KindUnauthorized, "credenciales inválidas")
	ErrInactiveAccount    = newError(KindUnauthorized, "usuario inactivo")
	ErrForbidden          = newError(KindUnauthorized, "acceso denegado")

	ErrInsufficientStock  = newError(KindConflict, "stock insuficiente")
	ErrProductUnavailable = newError(KindConflict, "producto no disponible")
)

// KindOf devuelve la clase del error de dominio contenido en err (aunque esté envuelto).
// Retorna "" si err no es un error de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Invalid construye un error de validación con un mensaje concreto.
func Invalid(msg string) *Error {
	return newError(KindValidation, msg)
}
