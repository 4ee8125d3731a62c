package active_directory

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoPhoto      = errors.New("no photo stored for user")
)
