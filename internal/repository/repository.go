// Package repository defines the persistence contracts for the service layer
// and their GORM implementations. Services depend on the interfaces so tests
// can substitute in-memory fakes.
package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrInvalidPassword = errors.New("password does not match")
	ErrPasswordReuse   = errors.New("new password must differ from the current one")
)
