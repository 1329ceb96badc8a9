package entities

import "errors"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCommerce Role = "commerce"
	RoleDriver   Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCommerce, RoleDriver:
		return true
	}
	return false
}

// Dispatcher returns true for roles allowed to assign orders and
// see the full driver registry.
func (r Role) Dispatcher() bool {
	return r == RoleAdmin || r == RoleCommerce
}

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Phone     string
	IsActive  bool
	StoreID   string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
