package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria del puerto de usuarios.
// Respeta la unicidad de email (sin distinguir mayúsculas) y de run.
type UserRepository struct {
	db access
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	var err error
	r.db.write(func(d *dataset) {
		if err = checkUserUnique(d, user); err != nil {
			return
		}
		d.userSeq++
		user.ID = d.userSeq
		d.users[user.ID] = copyUser(user)
	})
	return err
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	var err error
	r.db.write(func(d *dataset) {
		if _, ok := d.users[user.ID]; !ok {
			err = domain.ErrUserNotFound
			return
		}
		if err = checkUserUnique(d, user); err != nil {
			return
		}
		d.users[user.ID] = copyUser(user)
	})
	return err
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	r.db.read(func(d *dataset) {
		if u, ok := d.users[id]; ok {
			out = copyUser(u)
		}
	})
	if out == nil {
		return nil, domain.ErrUserNotFound
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.db.read(func(d *dataset) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
				return
			}
		}
	})
	if out == nil {
		return nil, domain.ErrUserNotFound
	}
	return out, nil
}

func (r *UserRepository) FindAll(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	r.db.read(func(d *dataset) {
		out = make([]*entity.User, 0, len(d.users))
		for _, u := range d.users {
			out = append(out, copyUser(u))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var found bool
	r.db.read(func(d *dataset) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *UserRepository) ExistsByRun(_ context.Context, run string) (bool, error) {
	var found bool
	r.db.read(func(d *dataset) {
		for _, u := range d.users {
			if u.Run == run {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	var err error
	r.db.write(func(d *dataset) {
		u, ok := d.users[id]
		if !ok {
			err = domain.ErrUserNotFound
			return
		}
		t := at
		u.LastLoginAt = &t
	})
	return err
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	var n int64
	r.db.read(func(d *dataset) { n = int64(len(d.users)) })
	return n, nil
}

func (r *UserRepository) CountActive(_ context.Context) (int64, error) {
	var n int64
	r.db.read(func(d *dataset) {
		for _, u := range d.users {
			if u.IsActive() {
				n++
			}
		}
	})
	return n, nil
}

func checkUserUnique(d *dataset, user *entity.User) error {
	for _, u := range d.users {
		if u.ID == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
		if u.Run == user.Run {
			return domain.ErrRunAlreadyExists
		}
	}
	return nil
}
