package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrAdminExists        = errors.New("admin already exists")
)
