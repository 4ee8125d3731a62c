package offboard

import "fmt"

// Kind classifies workflow failures so callers can branch on the cause
// instead of inspecting an ambient status.
type Kind int

const (
	KindUnconfirmed Kind = iota
	KindNotFound
	KindMailSystem
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnconfirmed:
		return "unconfirmed"
	case KindNotFound:
		return "not-found"
	case KindMailSystem:
		return "mail-system"
	default:
		return "internal"
	}
}

type KindError struct {
	Kind Kind
	Err  error
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

func kindErrorf(kind Kind, format string, args ...interface{}) *KindError {
	return &KindError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
