package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest entrada para el registro público. El rol siempre es CLIENTE.
type RegisterRequest struct {
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
}

// LoginResponse salida de login y registro.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"rol"`
	ID    int64  `json:"id"`
}
