package models

import "errors"

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusOpen, SessionStatusClosed:
		return true
	}
	return false
}

type MovementKind string

const (
	MovementKindSale   MovementKind = "sale"
	MovementKindRefund MovementKind = "refund"
	MovementKindIn     MovementKind = "in"
	MovementKindOut    MovementKind = "out"
)

func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindSale, MovementKindRefund, MovementKindIn, MovementKindOut:
		return true
	}
	return false
}

// IsInbound reports whether movements of this kind must carry a positive
// amount. Outbound kinds (out, refund) must carry a negative amount.
func (k MovementKind) IsInbound() bool {
	return k == MovementKindSale || k == MovementKindIn
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

type CountPhase string

const (
	CountPhaseOpening CountPhase = "opening"
	CountPhaseClosing CountPhase = "closing"
)

func (p CountPhase) IsValid() bool {
	switch p {
	case CountPhaseOpening, CountPhaseClosing:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

func (r *UserRole) UnmarshalText(b []byte) error {
	switch UserRole(b) {
	case UserRoleAdmin, UserRoleManager, UserRoleEmployee:
		*r = UserRole(b)
		return nil
	}
	return errors.New("invalid user role")
}
