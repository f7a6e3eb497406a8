package repository

import "errors"

var (
	// ErrUnavailable is returned when the dataset origin cannot be reached or refuses the request
	ErrUnavailable = errors.New("dataset source unavailable")

	// ErrMalformed is returned when the dataset payload cannot be parsed
	ErrMalformed = errors.New("malformed dataset")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
