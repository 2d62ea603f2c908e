package service

import "errors"

var (
	ErrEmptyContent = errors.New("note content cannot be empty")
	ErrNotOwner     = errors.New("unauthorized: note does not belong to user")
	ErrNoReminder   = errors.New("note has no reminder set")
	ErrNotFound     = errors.New("not found")
)
