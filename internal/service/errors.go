package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidNetwork      = errors.New("invalid university WiFi network")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrNoActiveSession     = errors.New("no active session found")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrNoTrees             = errors.New("no trees found")
)
