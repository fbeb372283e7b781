package models

import "time"

// User is a registered account in the system. The username doubles as the
// caller identity the engine sees; roles (merchant/recycler/admin) live in
// the engine's role registry, not here.
type User struct {
	UUID         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// DummyRegister receives registration data from a JSON request.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin receives login data from a JSON request.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}

// DummyRoleChange receives an admin role-management request.
type DummyRoleChange struct {
	Identity string `json:"identity" validate:"required"`
}
