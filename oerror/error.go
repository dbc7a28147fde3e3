package oerror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// KindInvariant marks a broken internal invariant: a programmer error.
	KindInvariant Kind = iota
	// KindMalformedContent marks missing or unusable configured content such as clips or settings.
	KindMalformedContent
	// KindTransport marks a payload that could not be sent, received or decoded.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindInvariant:
		return "invariant"
	case KindMalformedContent:
		return "malformed content"
	case KindTransport:
		return "transport"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type OomphError struct {
	Kind Kind
	Err  string
}

// New returns an invariant error with a formatted message.
func New(format string, args ...any) *OomphError {
	return &OomphError{Kind: KindInvariant, Err: fmt.Sprintf(format, args...)}
}

// Malformed returns a malformed content error with a formatted message.
func Malformed(format string, args ...any) *OomphError {
	return &OomphError{Kind: KindMalformedContent, Err: fmt.Sprintf(format, args...)}
}

// Transport returns a transport error with a formatted message.
func Transport(format string, args ...any) *OomphError {
	return &OomphError{Kind: KindTransport, Err: fmt.Sprintf(format, args...)}
}

func (e *OomphError) Error() string {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *OomphError of kind k.
func IsKind(err error, k Kind) bool {
	var oErr *OomphError
	if errors.As(err, &oErr) {
		return oErr.Kind == k
	}
	return false
}
