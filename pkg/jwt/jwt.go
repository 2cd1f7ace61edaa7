package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más los campos propios de la tienda.
// Subject lleva el email; Role y UserID permiten autorizar sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Role   string `json:"rol"`
	UserID int64  `json:"userId"`
}

// Service emite y valida tokens HS256 con un secreto y una vigencia fijos.
type Service struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// Option configura el Service.
type Option func(*Service)

// WithClock reemplaza el reloj (útil en tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService construye el servicio de tokens. El secreto no puede ser vacío.
func NewService(secret string, lifetime time.Duration, issuer string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("jwt: vigencia inválida: %s", lifetime)
	}
	s := &Service{secret: []byte(secret), lifetime: lifetime, issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue genera un token firmado con email (subject), rol e ID de usuario.
func (s *Service) Issue(email, role string, userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		Role:   role,
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate retorna true solo si la firma verifica, el token está bien formado y no expiró.
// Nunca falla: un token ilegible equivale a uno expirado.
func (s *Service) Validate(tokenString string) bool {
	_, err := s.Parse(tokenString)
	return err == nil
}

// Parse valida el token y devuelve sus claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}

// ExtractEmail devuelve el email (subject) de un token ya validado.
func (s *Service) ExtractEmail(tokenString string) (string, error) {
	c, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

// ExtractRole devuelve el rol de un token ya validado.
func (s *Service) ExtractRole(tokenString string) (string, error) {
	c, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return c.Role, nil
}

// ExtractUserID devuelve el ID de usuario de un token ya validado.
func (s *Service) ExtractUserID(tokenString string) (int64, error) {
	c, err := s.Parse(tokenString)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}
