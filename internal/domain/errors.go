package domain

import "errors"

var (
	// ErrUserNotFound пользователь отсутствует в леджере
	ErrUserNotFound = errors.New("user not found")
)
