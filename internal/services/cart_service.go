package services

import (
	"errors"
	"fmt"

	"kiosco/internal/domain"
	"kiosco/internal/store"
)

var (
	ErrNotAvailable    = errors.New("product is not available")
	ErrNotCustomizable = errors.New("product does not allow customizations")
)

// CartService runs the cart aggregation for a session. The cart lives only
// in the session store; it is written on every mutation and read on each
// request.
type CartService struct {
	Sessions store.SessionStore
	Store    store.Port // product lookups
}

func NewCartService(sessions store.SessionStore, st store.Port) *CartService {
	return &CartService{Sessions: sessions, Store: st}
}

func (s *CartService) validateCustomization(p domain.Product, cust *domain.Customization) error {
	if cust == nil {
		return nil
	}
	if !p.Customizable {
		return ErrNotCustomizable
	}
	for _, in := range cust.Ingredients {
		if !p.HasIngredient(in) {
			return fmt.Errorf("ingredient %q is not offered for %s", in, p.Name)
		}
	}
	for _, cond := range cust.Condiments {
		ok := false
		for _, allowed := range domain.Condiments {
			if allowed == cond {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unknown condiment %q", cond)
		}
	}
	return nil
}

func (s *CartService) Add(sid, productID string, qty int, cust *domain.Customization) (domain.Cart, error) {
	p, err := s.Store.GetProduct(productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !p.Available {
		return domain.Cart{}, ErrNotAvailable
	}
	if err := s.validateCustomization(p, cust); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.Sessions.LoadCart(sid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.Add(p, qty, cust)
	if err := s.Sessions.SaveCart(sid, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) SetQuantity(sid, productID string, cust *domain.Customization, qty int) (domain.Cart, error) {
	cart, err := s.Sessions.LoadCart(sid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.SetQuantity(productID, cust, qty)
	if err := s.Sessions.SaveCart(sid, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) Remove(sid, productID string, cust *domain.Customization) (domain.Cart, error) {
	cart, err := s.Sessions.LoadCart(sid)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.Remove(productID, cust)
	if err := s.Sessions.SaveCart(sid, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *CartService) Clear(sid string) error {
	return s.Sessions.SaveCart(sid, domain.Cart{})
}

func (s *CartService) View(sid string) (domain.Cart, error) {
	return s.Sessions.LoadCart(sid)
}
