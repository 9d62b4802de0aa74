package settings

import "errors"

var (
	ErrNotFound     = errors.New("setting not found")
	ErrNotEditable  = errors.New("setting is not editable")
	ErrDuplicateKey = errors.New("setting key already exists")
)
