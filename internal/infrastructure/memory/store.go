// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

type dataset struct {
	users    map[int64]*entity.User
	products map[int64]*entity.Product
	carts    map[int64]*entity.Cart

	userSeq    int64
	productSeq int64
	cartSeq    int64
	itemSeq    int64
}

func newDataset() *dataset {
	return &dataset{
		users:    map[int64]*entity.User{},
		products: map[int64]*entity.Product{},
		carts:    map[int64]*entity.Cart{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		users:      make(map[int64]*entity.User, len(d.users)),
		products:   make(map[int64]*entity.Product, len(d.products)),
		carts:      make(map[int64]*entity.Cart, len(d.carts)),
		userSeq:    d.userSeq,
		productSeq: d.productSeq,
		cartSeq:    d.cartSeq,
		itemSeq:    d.itemSeq,
	}
	for id, u := range d.users {
		c.users[id] = copyUser(u)
	}
	for id, p := range d.products {
		c.products[id] = copyProduct(p)
	}
	for id, ct := range d.carts {
		c.carts[id] = copyCart(ct)
	}
	return c
}

// access abstrae cómo un repositorio llega a los datos: con lock (Store) o dentro de una tx ya bloqueada.
type access interface {
	read(fn func(d *dataset))
	write(fn func(d *dataset))
}

// Store contenedor en memoria, seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *dataset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Users devuelve el repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepository { return &UserRepository{db: s} }

// Products devuelve el repositorio de productos sobre el store.
func (s *Store) Products() *ProductRepository { return &ProductRepository{db: s} }

// Carts devuelve el repositorio de carritos sobre el store.
func (s *Store) Carts() *CartRepository { return &CartRepository{db: s} }

// txAccess opera sobre una copia privada mientras el Store está bloqueado en escritura.
type txAccess struct {
	data *dataset
}

func (t *txAccess) read(fn func(d *dataset))  { fn(t.data) }
func (t *txAccess) write(fn func(d *dataset)) { fn(t.data) }

// TxRunner ejecuta callbacks de forma atómica sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run serializa la transacción: fn trabaja sobre una copia que solo se publica si no hay error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	carts repository.CartRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := &txAccess{data: r.store.data.clone()}
	if err := fn(&CartRepository{db: tx}, &ProductRepository{db: tx}, &UserRepository{db: tx}); err != nil {
		return err
	}
	r.store.data = tx.data
	return nil
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.BirthDate != nil {
		t := *u.BirthDate
		c.BirthDate = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.Stock != nil {
		s := *p.Stock
		c.Stock = &s
	}
	return &c
}

func copyCart(ct *entity.Cart) *entity.Cart {
	c := *ct
	c.Items = make([]entity.CartItem, len(ct.Items))
	copy(c.Items, ct.Items)
	return &c
}
