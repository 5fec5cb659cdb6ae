package philosopher

import "fmt"

// DescriptorError is a malformed seat, found before anyone sits down.
type DescriptorError struct {
	Seat       int
	Descriptor Descriptor
	Reason     string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("seat %d %s: %s", e.Seat, e.Descriptor, e.Reason)
}

// AcquireError means a philosopher could not take one of its forks.
type AcquireError struct {
	Name string
	Fork int
	Err  error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("%s cannot take fork %d: %v", e.Name, e.Fork, e.Err)
}

func (e *AcquireError) Unwrap() error { return e.Err }

// AbnormalExitError means a philosopher stopped eating by panicking. Its
// forks were tainted and put back.
type AbnormalExitError struct {
	Name  string
	Cause interface{}
}

func (e *AbnormalExitError) Error() string {
	return fmt.Sprintf("%s left the table abnormally: %v", e.Name, e.Cause)
}
