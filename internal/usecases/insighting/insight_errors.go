package insighting

import "errors"

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrAttributionNotFound = errors.New("attribution not found")
	ErrInvalidPeriod       = errors.New("start_date must not be after end_date")
)
