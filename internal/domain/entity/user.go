package entity

import (
	"strings"
	"time"

	"github.com/seedstoroots/tienda-api/internal/domain"
)

// Role es el rol de un usuario. Conjunto cerrado: CLIENTE o ADMIN.
type Role string

const (
	RoleCliente Role = "CLIENTE"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole interpreta un rol sin distinguir mayúsculas. Vacío equivale a CLIENTE.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleCliente, nil
	}
	switch r := Role(strings.ToUpper(s)); r {
	case RoleCliente, RoleAdmin:
		return r, nil
	}
	return "", domain.ErrInvalidRole
}

// CanManageCatalog indica si el rol puede crear, editar o desactivar productos.
func (r Role) CanManageCatalog() bool { return r == RoleAdmin }

// CanManageUsers indica si el rol puede administrar cuentas de otros usuarios.
func (r Role) CanManageUsers() bool { return r == RoleAdmin }

// CanViewStatistics indica si el rol puede consultar las estadísticas globales.
func (r Role) CanViewStatistics() bool { return r == RoleAdmin }

// UserStatus es el ciclo de vida de una cuenta. Las cuentas nunca se borran físicamente.
type UserStatus string

const (
	UserActive      UserStatus = "ACTIVE"
	UserDeactivated UserStatus = "DEACTIVATED"
)

// UserStatusFromActive traduce el flag "activo" del contrato HTTP al estado del ciclo de vida.
func UserStatusFromActive(active bool) UserStatus {
	if active {
		return UserActive
	}
	return UserDeactivated
}

// User representa una cuenta de la tienda (cliente o administrador).
type User struct {
	ID           int64
	Run          string // identificador nacional, único
	FirstName    string
	LastName     string
	Email        string // único
	Phone        string
	Address      string
	Region       string
	Commune      string
	City         string
	BirthDate    *time.Time
	PasswordHash string // bcrypt
	Role         Role
	Status       UserStatus
	RegisteredAt time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsActive indica si la cuenta puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserActive }

// Deactivate marca la cuenta como desactivada.
func (u *User) Deactivate(now time.Time) {
	u.Status = UserDeactivated
	u.UpdatedAt = now
}

// Identity es la identidad explícita del llamador, resuelta desde el token en la frontera.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// CanAccessCart indica si la identidad puede operar el carrito del usuario uid (solo el propio).
func (i Identity) CanAccessCart(uid int64) bool {
	return i.UserID != 0 && i.UserID == uid
}
