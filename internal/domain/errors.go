package domain

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInsufficientContribution = errors.New("insufficient contribution")
	ErrIndexOutOfRange          = errors.New("funder index out of range")
	ErrTransferFailed           = errors.New("transfer failed")
	ErrInvalidAddress           = errors.New("invalid address")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInsufficientBalance      = errors.New("insufficient balance")
)
