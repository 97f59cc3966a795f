package domain

import "errors"

var (
	ErrInvalidQuery = errors.New("invalid query parameters")
	ErrNoResponse   = errors.New("no response from marketplace")
	ErrBadResponse  = errors.New("malformed marketplace response")
)
