package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo persiste el agregado carrito (carts + cart_items).
// Dentro de una tx, FindActiveByUser bloquea la fila del carrito: las mutaciones del mismo usuario se serializan.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// FindActiveByUser devuelve el carrito ACTIVE del usuario con sus líneas, o nil si no tiene.
func (r *CartRepo) FindActiveByUser(ctx context.Context, userID int64) (*entity.Cart, error) {
	var c entity.Cart
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, status, created_at, updated_at
		FROM carts WHERE user_id = $1 AND status = $2
		FOR UPDATE`, userID, entity.CartActive,
	).Scan(&c.ID, &c.UserID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active cart: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, cart_id, product_id, product_name, product_image, unit_price, quantity, subtotal
		FROM cart_items WHERE cart_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	c.Items = []entity.CartItem{}
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.ProductImage,
			&it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta el carrito y asigna su ID. El índice único parcial impide dos ACTIVE por usuario:
// si otra tx creó el carrito en paralelo, se adopta el existente.
func (r *CartRepo) Create(ctx context.Context, c *entity.Cart) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO carts (user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) WHERE status = 'ACTIVE' DO NOTHING
		RETURNING id`, c.UserID, c.Status, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.FindActiveByUser(ctx, c.UserID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("insert cart: conflicto sin carrito activo para usuario %d", c.UserID)
		}
		*c = *existing
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return r.insertItems(ctx, c)
}

// Save actualiza el carrito y reemplaza todas sus líneas. Debe ejecutarse dentro de una tx.
func (r *CartRepo) Save(ctx context.Context, c *entity.Cart) error {
	cmd, err := r.q.Exec(ctx, `UPDATE carts SET status = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.Status, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update cart: carrito %d no existe", c.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return r.insertItems(ctx, c)
}

func (r *CartRepo) insertItems(ctx context.Context, c *entity.Cart) error {
	for i := range c.Items {
		it := &c.Items[i]
		it.CartID = c.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO cart_items (cart_id, product_id, product_name, product_image, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			it.CartID, it.ProductID, it.ProductName, it.ProductImage, it.UnitPrice, it.Quantity, it.Subtotal,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return nil
}
