package bookmark

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxTitleLength = 200

// ValidateInsert checks a client-supplied insert and returns it with url
// and title trimmed. The URL must parse as an absolute URL.
func ValidateInsert(in Insert) (Insert, error) {
	in.URL = strings.TrimSpace(in.URL)
	in.Title = strings.TrimSpace(in.Title)

	if in.URL == "" || in.Title == "" {
		return in, ErrFieldsMissing
	}

	u, err := url.Parse(in.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return in, ErrInvalidURL
	}

	if utf8.RuneCountInString(in.Title) > maxTitleLength {
		return in, ErrTitleTooLong
	}

	return in, nil
}
