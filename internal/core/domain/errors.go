package domain

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrInvalidItem  = errors.New("invalid item")
	ErrKeyNotFound  = errors.New("key not found")
)
