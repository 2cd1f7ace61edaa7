package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

const birthDateLayout = "2006-01-02"

// UserUseCase aplica reglas de negocio para usuarios (alta, consulta, edición y desactivación).
type UserUseCase struct {
	repo     repository.UserRepository
	hashCost int
	now      func() time.Time
}

// UserOption configura el UserUseCase.
type UserOption func(*UserUseCase)

// WithHashCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func WithHashCost(cost int) UserOption {
	return func(uc *UserUseCase) { uc.hashCost = cost }
}

// WithUserClock reemplaza el reloj.
func WithUserClock(now func() time.Time) UserOption {
	return func(uc *UserUseCase) { uc.now = now }
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, opts ...UserOption) *UserUseCase {
	uc := &UserUseCase{repo: repo, hashCost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create da de alta una cuenta. Email y run deben ser únicos; el rol vacío equivale a CLIENTE.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	exists, err := uc.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}
	run := strings.TrimSpace(in.Run)
	exists, err = uc.repo.ExistsByRun(ctx, run)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRunAlreadyExists
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, domain.ErrPasswordRequired
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	birth, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		Run:          run,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        in.Phone,
		Address:      in.Address,
		Region:       in.Region,
		Commune:      in.Commune,
		City:         in.City,
		BirthDate:    birth,
		PasswordHash: hash,
		Role:         role,
		Status:       entity.UserActive,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// List devuelve todas las cuentas.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// GetByEmail obtiene un usuario por email.
func (uc *UserUseCase) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := uc.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Update aplica solo los campos presentes. Cambiar el email revalida su unicidad.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			exists, err := uc.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if strings.TrimSpace(*in.Password) == "" {
			return nil, domain.ErrPasswordRequired
		}
		hash, err := uc.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		role, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if in.BirthDate != nil {
		birth, err := parseBirthDate(in.BirthDate)
		if err != nil {
			return nil, err
		}
		user.BirthDate = birth
	}
	assign(&user.FirstName, in.FirstName)
	assign(&user.LastName, in.LastName)
	assign(&user.Phone, in.Phone)
	assign(&user.Address, in.Address)
	assign(&user.Region, in.Region)
	assign(&user.Commune, in.Commune)
	assign(&user.City, in.City)
	if in.Active != nil {
		user.Status = entity.UserStatusFromActive(*in.Active)
	}
	user.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Deactivate desactiva la cuenta (nunca se borra físicamente).
func (uc *UserUseCase) Deactivate(ctx context.Context, id int64) error {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate(uc.now())
	return uc.repo.Update(ctx, user)
}

// EnsureAdmin crea la cuenta administradora inicial si el email no existe. Devuelve true si la creó.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	exists, err := uc.repo.ExistsByEmail(ctx, normalizeEmail(email))
	if err != nil || exists {
		return false, err
	}
	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Run:       "ADMIN-" + normalizeEmail(email),
		FirstName: "Administrador",
		Email:     email,
		Password:  password,
		Role:      string(entity.RoleAdmin),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *UserUseCase) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Invalid("fechaNacimiento debe tener formato AAAA-MM-DD")
	}
	return &t, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	var birth *string
	if u.BirthDate != nil {
		s := u.BirthDate.Format(birthDateLayout)
		birth = &s
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Run:         u.Run,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Address:     u.Address,
		Region:      u.Region,
		Commune:     u.Commune,
		City:        u.City,
		BirthDate:   birth,
		Role:        string(u.Role),
		Active:      u.IsActive(),
		CreatedAt:   u.RegisteredAt,
		LastLoginAt: u.LastLoginAt,
	}
}
