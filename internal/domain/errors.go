package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSelfDelete         = errors.New("no se puede eliminar la propia cuenta")

	// Pipeline de etapas.
	ErrInvalidStage       = errors.New("etapa inválida")
	ErrPersistence        = errors.New("fallo de persistencia")
	ErrNotification       = errors.New("fallo de notificación")
	ErrTransitionInFlight = errors.New("ya hay una transición en curso para este registro")
)

// ValidationError entrada rechazada con un mensaje apto para el usuario final.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
