package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, run, first_name, last_name, email, phone, address, region, commune, city,
	birth_date, password_hash, role, status, registered_at, updated_at, last_login_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (run, first_name, last_name, email, phone, address, region, commune, city,
			birth_date, password_hash, role, status, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.Run, user.FirstName, user.LastName, user.Email, user.Phone, user.Address, user.Region,
		user.Commune, user.City, user.BirthDate, user.PasswordHash, user.Role, user.Status,
		user.RegisteredAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return userWriteError("insert user", err)
	}
	return nil
}

// Update persiste los campos editables del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
			region = $7, commune = $8, city = $9, birth_date = $10, password_hash = $11, role = $12,
			status = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.Address, user.Region,
		user.Commune, user.City, user.BirthDate, user.PasswordHash, user.Role, user.Status, user.UpdatedAt,
	)
	if err != nil {
		return userWriteError("update user", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// FindAll lista todos los usuarios por ID.
func (r *UserRepo) FindAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
}

func (r *UserRepo) ExistsByRun(ctx context.Context, run string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE run = $1)`, run)
}

// UpdateLastLogin registra el instante del último login.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM users`)
}

func (r *UserRepo) CountActive(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT count(*) FROM users WHERE status = $1`, entity.UserActive)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists user: %w", err)
	}
	return ok, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Run, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address, &u.Region,
		&u.Commune, &u.City, &u.BirthDate, &u.PasswordHash, &u.Role, &u.Status,
		&u.RegisteredAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func userWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		switch violatedConstraint(err) {
		case "users_run_key":
			return domain.ErrRunAlreadyExists
		default:
			return domain.ErrEmailAlreadyExists
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func count(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
