package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

// TokenIssuer emite el token de sesión (implementado por pkg/jwt).
type TokenIssuer interface {
	Issue(email, role string, userID int64) (string, error)
}

// AccountCreator da de alta cuentas (implementado por usecase.UserUseCase).
type AccountCreator interface {
	Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error)
}

// LoginRecorder registra el resultado de cada login (métricas). Opcional.
type LoginRecorder interface {
	Login(outcome string)
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	users    repository.UserRepository
	accounts AccountCreator
	tokens   TokenIssuer
	recorder LoginRecorder
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, accounts AccountCreator, tokens TokenIssuer, recorder LoginRecorder) *AuthUseCase {
	return &AuthUseCase{users: users, accounts: accounts, tokens: tokens, recorder: recorder, now: time.Now}
}

// Login verifica email/password y estado de la cuenta, actualiza el último login y emite el token.
// Ante cualquier fallo no se modifica la cuenta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, uc.record(domain.ErrInvalidCredentials)
		}
		return nil, uc.record(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, uc.record(domain.ErrInvalidCredentials)
	}
	if !user.IsActive() {
		return nil, uc.record(domain.ErrInactiveAccount)
	}
	if err := uc.users.UpdateLastLogin(ctx, user.ID, uc.now()); err != nil {
		return nil, uc.record(fmt.Errorf("auth: actualizar último login: %w", err))
	}
	token, err := uc.tokens.Issue(user.Email, string(user.Role), user.ID)
	if err != nil {
		return nil, uc.record(fmt.Errorf("auth: emitir token: %w", err))
	}
	uc.record(nil)
	return &dto.LoginResponse{Token: token, Email: user.Email, Role: string(user.Role), ID: user.ID}, nil
}

// Register crea una cuenta CLIENTE y devuelve el mismo payload que el login.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	created, err := uc.accounts.Create(ctx, dto.CreateUserRequest{
		Run:       in.Run,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Phone:     in.Phone,
		Address:   in.Address,
		Region:    in.Region,
		Commune:   in.Commune,
		City:      in.City,
		BirthDate: in.BirthDate,
		Role:      string(entity.RoleCliente),
	})
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.Issue(created.Email, created.Role, created.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.LoginResponse{Token: token, Email: created.Email, Role: created.Role, ID: created.ID}, nil
}

func (uc *AuthUseCase) record(err error) error {
	if uc.recorder == nil {
		return err
	}
	switch {
	case err == nil:
		uc.recorder.Login("ok")
	case errors.Is(err, domain.ErrInvalidCredentials):
		uc.recorder.Login("invalid_credentials")
	case errors.Is(err, domain.ErrInactiveAccount):
		uc.recorder.Login("inactive")
	default:
		uc.recorder.Login("error")
	}
	return err
}
