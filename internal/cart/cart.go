// Package cart holds the shopping cart state machine: a closed set of
// actions, a pure reducer from (state, action) to the next state, and a
// container that dispatches actions atomically and publishes domain events.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/flicky/go-storefront/internal/events"
	"github.com/flicky/go-storefront/internal/gateway"
	"github.com/flicky/go-storefront/internal/model"
)

// State is the ordered cart collection, at most one item per product id.
type State struct {
	Items []model.CartItem
}

type Action interface{ isAction() }

type addItem struct{ product model.Product }
type removeItem struct{ productID int64 }
type setQuantity struct {
	productID int64
	quantity  int
}
type clear struct{}

func (addItem) isAction()     {}
func (removeItem) isAction()  {}
func (setQuantity) isAction() {}
func (clear) isAction()       {}

// reduce is total and pure: any action on any state yields a new state, and
// the inputs are never mutated.
func reduce(state State, action Action) State {
	switch a := action.(type) {
	case addItem:
		items := make([]model.CartItem, 0, len(state.Items)+1)
		merged := false
		for _, item := range state.Items {
			if item.ProductID == a.product.ID {
				item.Quantity++
				merged = true
			}
			items = append(items, item)
		}
		if !merged {
			items = append(items, model.CartItem{
				ProductID: a.product.ID,
				Name:      a.product.Name,
				Price:     a.product.Price,
				Image:     a.product.Image,
				Quantity:  1,
			})
		}
		return State{Items: items}

	case removeItem:
		items := make([]model.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ProductID != a.productID {
				items = append(items, item)
			}
		}
		return State{Items: items}

	case setQuantity:
		// Quantity zero or below means removal; an entry never persists
		// at quantity 0. Unknown product ids are a no-op.
		items := make([]model.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ProductID == a.productID {
				if a.quantity <= 0 {
					continue
				}
				item.Quantity = a.quantity
			}
			items = append(items, item)
		}
		return State{Items: items}

	case clear:
		return State{}

	default:
		return state
	}
}

// Container is the cart's public surface. Mutations are synchronous against
// local state; persistence through the gateway is a fire-and-forget side
// effect that never blocks or fails the mutation.
type Container struct {
	mu    sync.Mutex
	state State

	bus     *events.Bus
	gateway gateway.Gateway
	wg      sync.WaitGroup
}

// New builds a cart container. bus may be nil when no observer cares; gw may
// be nil to keep the cart purely local.
func New(bus *events.Bus, gw gateway.Gateway) *Container {
	return &Container{bus: bus, gateway: gw}
}

func (c *Container) dispatch(action Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reduce(c.state, action)
	return c.state
}

// Add puts one unit of product in the cart, merging with any existing entry.
func (c *Container) Add(product model.Product) {
	c.dispatch(addItem{product: product})
	c.publish(events.ItemAdded, fmt.Sprintf("%s added to cart", product.Name))
	c.persist(func(ctx context.Context, gw gateway.Gateway) error {
		_, err := gw.AddCartItem(ctx, gateway.AddCartItemParams{ProductID: product.ID, Quantity: 1})
		return err
	})
}

// Remove drops the product's entry. Removing an absent product is a no-op,
// not an error.
func (c *Container) Remove(productID int64) {
	before := c.Items()
	c.dispatch(removeItem{productID: productID})
	for _, item := range before {
		if item.ProductID == productID {
			c.publish(events.ItemRemoved, fmt.Sprintf("%s removed from cart", item.Name))
			break
		}
	}
}

// SetQuantity replaces the entry's quantity; zero or below removes it.
func (c *Container) SetQuantity(productID int64, quantity int) {
	c.dispatch(setQuantity{productID: productID, quantity: quantity})
	c.publish(events.QuantityChanged, fmt.Sprintf("quantity updated to %d", quantity))
}

// Clear empties the cart unconditionally.
func (c *Container) Clear() {
	c.dispatch(clear{})
	c.publish(events.CartCleared, "cart cleared")
	c.persist(func(ctx context.Context, gw gateway.Gateway) error {
		_, err := gw.ClearCart(ctx)
		return err
	})
}

// Items returns a copy of the current entries.
func (c *Container) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CartItem(nil), c.state.Items...)
}

// TotalPrice is the sum of price times quantity over all entries.
func (c *Container) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.state.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItems is the sum of quantities over all entries.
func (c *Container) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.state.Items {
		count += item.Quantity
	}
	return count
}

func (c *Container) publish(t events.Type, msg string) {
	if c.bus != nil {
		c.bus.Publish(events.Event{Type: t, Message: msg})
	}
}

// persist runs a gateway call in the background. Failures surface as error
// events only; the local state transition already happened and stands.
func (c *Container) persist(call func(context.Context, gateway.Gateway) error) {
	if c.gateway == nil {
		return
	}
	gw := c.gateway
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := call(context.Background(), gw); err != nil {
			c.publish(events.ErrorOccurred, fmt.Sprintf("cart sync failed: %v", err))
		}
	}()
}

// Wait blocks until in-flight persistence calls finish. Tests use it to make
// fire-and-forget effects observable.
func (c *Container) Wait() { c.wg.Wait() }
