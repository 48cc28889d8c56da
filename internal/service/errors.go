package service

import "errors"

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrMissingApplicationID = errors.New("application id is missing")
	ErrInvalidApplicationID = errors.New("application id is not a number")
	ErrNotAwaitingAnswer    = errors.New("user is not answering questions")
	ErrNotAwaitingBroadcast = errors.New("reviewer is not composing a broadcast")
	ErrAccessDenied         = errors.New("access denied")
)
