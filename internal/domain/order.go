package domain

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusPendiente OrderStatus = "pendiente"
	StatusPreparing OrderStatus = "en_preparacion"
	StatusListo     OrderStatus = "listo"
	StatusEntregado OrderStatus = "entregado"
	StatusCancelado OrderStatus = "cancelado"
)

var ErrOrderFinal = errors.New("order already in a final state")

func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPendiente, StatusPreparing, StatusListo, StatusEntregado, StatusCancelado:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusEntregado || s == StatusCancelado
}

// Next maps pendiente→en_preparacion→listo→entregado. Terminal states error.
func (s OrderStatus) Next() (OrderStatus, error) {
	switch s {
	case StatusPendiente:
		return StatusPreparing, nil
	case StatusPreparing:
		return StatusListo, nil
	case StatusListo:
		return StatusEntregado, nil
	case StatusEntregado, StatusCancelado:
		return s, ErrOrderFinal
	}
	return s, fmt.Errorf("unknown order status %q", string(s))
}

// CanCancel is true from every non-terminal state.
func (s OrderStatus) CanCancel() bool { return !s.Terminal() }

type PaymentMethod string

const (
	PayTarjeta     PaymentMethod = "tarjeta"
	PayMercadoPago PaymentMethod = "mercadopago"
	PayEfectivo    PaymentMethod = "efectivo"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PayTarjeta, PayMercadoPago, PayEfectivo:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Items         []CartItem    `json:"items"`
	TotalAmount   int           `json:"total_amount"`
	ScheduledTime string        `json:"scheduled_time"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	UserCycle     Role          `json:"user_cycle,omitempty"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at,omitempty"`
	CompletedAt   string        `json:"completed_at,omitempty"`
}
