package dictionary

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
)

// ErrorKind is how a failed lookup is presented to the user.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindGeneric
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindGeneric:
		return "generic"
	}
	return "unknown"
}

// StatusError is returned when an API responds with a status code of 400 or above.
// Its message always ends with the status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code: %d", e.StatusCode)
}

var trailingStatusCode = regexp.MustCompile(`\d{3}$`)

// Classify decides whether err means the word does not exist.
// Errors without a typed status fall back to the last three digits of their message.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return KindNotFound
		}
		return KindGeneric
	}

	code, convErr := strconv.Atoi(trailingStatusCode.FindString(err.Error()))
	if convErr == nil && code == http.StatusNotFound {
		return KindNotFound
	}
	return KindGeneric
}
