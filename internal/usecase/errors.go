package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrWindowClosed      = errors.New("submission window closed")
	ErrAlreadyScored     = errors.New("fixture already scored")
	ErrNotFinished       = errors.New("fixture not finished")
	ErrSourceUnavailable = errors.New("fixture source unavailable")
)
