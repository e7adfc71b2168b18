package repos

import "errors"

var ErrInsufficientStock = errors.New("insufficient stock")
