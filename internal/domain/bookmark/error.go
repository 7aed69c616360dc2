package bookmark

import "errors"

var (
	ErrNotFound      = errors.New("bookmark not found")
	ErrFieldsMissing = errors.New("url and title are required")
	ErrInvalidURL    = errors.New("invalid URL format")
	ErrTitleTooLong  = errors.New("title must be at most 200 characters")
)
