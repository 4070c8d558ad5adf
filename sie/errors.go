package sie

import "fmt"

// DecodeError is a structural failure: the stream could not be read or no
// candidate encoding could decode it. Structural failures abort the run,
// unlike per-voucher warnings.
type DecodeError struct {
	Path   string // "" when decoding from memory
	Offset int    // byte offset of the first offending byte, -1 if unknown
	Msg    string
	Err    error
}

func (e *DecodeError) Error() string {
	where := e.Path
	if where == "" {
		where = "<input>"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: offset %d: %s", where, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s: %s", where, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }
