package check

import "fmt"

// Violation is one failed invariant, identifying which check caught it and
// where. It wraps a category sentinel (ErrCycle or ErrCorrupt) so callers
// can use errors.Is without parsing the message.
type Violation struct {
	Check        string
	Message      string
	HeaderOffset int
	sentinel     error
}

func (v *Violation) Error() string {
	if v.HeaderOffset >= 0 {
		return fmt.Sprintf("%s at offset %#x: %s", v.Check, v.HeaderOffset, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Check, v.Message)
}

func (v *Violation) Unwrap() error {
	return v.sentinel
}

func violation(sentinel error, check, message string, hdrOff int) *Violation {
	return &Violation{Check: check, Message: message, HeaderOffset: hdrOff, sentinel: sentinel}
}
