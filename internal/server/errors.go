package server

import "fmt"

// ContractViolation is the panic value raised when client and server disagree
// about the protocol handshake or when the file system refuses an edit. It is
// not a protocol error: the dispatch loop recovers it and ends the connection.
type ContractViolation struct {
	Reason string
}

func (v *ContractViolation) Error() string {
	return "contract violation: " + v.Reason
}

// Violate panics with a ContractViolation.
func Violate(format string, args ...any) {
	panic(&ContractViolation{Reason: fmt.Sprintf(format, args...)})
}
