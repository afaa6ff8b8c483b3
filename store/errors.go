package store

import "errors"

var (
	ErrNotFound      = errors.New("key not found")
	ErrStoreClosed   = errors.New("store is closed")
	ErrCorruptRecord = errors.New("corrupt properties record")
)
