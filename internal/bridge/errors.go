package bridge

import "fmt"

// ErrorKind classifies setup failures.
type ErrorKind int

const (
	// ParseFailure means the descriptor is not a valid combination.
	ParseFailure ErrorKind = iota + 1
	// RegistrationFailure means the host refused the combination.
	RegistrationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ParseFailure:
		return "parse failure"
	case RegistrationFailure:
		return "registration failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SetupError is returned by Setup. Err is the underlying host error.
type SetupError struct {
	Kind       ErrorKind
	Descriptor string
	Err        error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("global shortcut %q: %s: %v", e.Descriptor, e.Kind, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
