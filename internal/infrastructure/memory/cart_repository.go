package memory

import (
	"context"
	"fmt"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepository)(nil)

// CartRepository implementación en memoria del agregado carrito.
type CartRepository struct {
	db access
}

func (r *CartRepository) FindActiveByUser(_ context.Context, userID int64) (*entity.Cart, error) {
	var out *entity.Cart
	r.db.read(func(d *dataset) {
		for _, c := range d.carts {
			if c.UserID == userID && c.Status == entity.CartActive {
				out = copyCart(c)
				return
			}
		}
	})
	return out, nil
}

func (r *CartRepository) Create(_ context.Context, cart *entity.Cart) error {
	var err error
	r.db.write(func(d *dataset) {
		if cart.Status == entity.CartActive {
			for _, c := range d.carts {
				if c.UserID == cart.UserID && c.Status == entity.CartActive {
					err = fmt.Errorf("carrito activo duplicado para usuario %d", cart.UserID)
					return
				}
			}
		}
		d.cartSeq++
		cart.ID = d.cartSeq
		assignItemIDs(d, cart)
		d.carts[cart.ID] = copyCart(cart)
	})
	return err
}

func (r *CartRepository) Save(_ context.Context, cart *entity.Cart) error {
	var err error
	r.db.write(func(d *dataset) {
		if _, ok := d.carts[cart.ID]; !ok {
			err = fmt.Errorf("carrito %d no existe", cart.ID)
			return
		}
		assignItemIDs(d, cart)
		d.carts[cart.ID] = copyCart(cart)
	})
	return err
}

func assignItemIDs(d *dataset, cart *entity.Cart) {
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
		if cart.Items[i].ID == 0 {
			d.itemSeq++
			cart.Items[i].ID = d.itemSeq
		}
	}
}
