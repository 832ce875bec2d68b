package service

import "errors"

var (
	// ErrNotFound means a referenced entity or association row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means the association (favorite, cart item, follow) or
	// unique user field already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDuplicateIngredient means a recipe write listed the same ingredient twice.
	ErrDuplicateIngredient = errors.New("duplicate ingredient in recipe")
	// ErrNotOwner means a user attempted to mutate a recipe they do not own.
	ErrNotOwner = errors.New("only the author can modify this recipe")
	// ErrSelfFollow means a user attempted to subscribe to themselves.
	ErrSelfFollow = errors.New("cannot subscribe to yourself")
	// ErrInvalidCredentials means login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStorageUnavailable means image storage is not configured.
	ErrStorageUnavailable = errors.New("image storage is not configured")
)
