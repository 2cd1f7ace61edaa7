package dto

import "time"

// CreateUserRequest entrada para crear un usuario desde administración.
// Password en texto plano, se hashea en el use case. Rol vacío equivale a CLIENTE.
type CreateUserRequest struct {
	Run       string  `json:"run" validate:"required,max=20"`
	FirstName string  `json:"nombre" validate:"required,max=100"`
	LastName  string  `json:"apellidos" validate:"max=100"`
	Email     string  `json:"email" validate:"required,email,max=150"`
	Password  string  `json:"password"`
	Phone     string  `json:"telefono" validate:"max=30"`
	Address   string  `json:"direccion" validate:"max=200"`
	Region    string  `json:"region" validate:"max=100"`
	Commune   string  `json:"comuna" validate:"max=100"`
	City      string  `json:"ciudad" validate:"max=100"`
	BirthDate *string `json:"fechaNacimiento" validate:"omitempty,datetime=2006-01-02"`
	Role      string  `json:"rol"`
}

// UpdateUserRequest actualización parcial: solo se aplican los campos presentes.
type UpdateUserRequest struct {
	FirstName *string `json:"nombre" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"apellidos" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=150"`
	Password  *string `json:"password"`
	Phone     *string `json:"telefono" validate:"omitempty,max=30"`
	Address   *string `json:"direccion" validate:"omitempty,max=200"`
	Region    *string `json:"region" validate:"omitempty,max=100"`
	Commune   *string `json:"comuna" validate:"omitempty,max=100"`
	City      *string `json:"ciudad" validate:"omitempty,max=100"`
	BirthDate *string `json:"fechaNacimiento" validate:"omitempty,datetime=2006-01-02"`
	Role      *string `json:"rol"`
	Active    *bool   `json:"activo"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          int64      `json:"id"`
	Run         string     `json:"run"`
	FirstName   string     `json:"nombre"`
	LastName    string     `json:"apellidos"`
	Email       string     `json:"email"`
	Phone       string     `json:"telefono"`
	Address     string     `json:"direccion"`
	Region      string     `json:"region"`
	Commune     string     `json:"comuna"`
	City        string     `json:"ciudad"`
	BirthDate   *string    `json:"fechaNacimiento"`
	Role        string     `json:"rol"`
	Active      bool       `json:"activo"`
	CreatedAt   time.Time  `json:"fechaRegistro"`
	LastLoginAt *time.Time `json:"ultimoLogin"`
}
