// ABOUTME: Error kinds for the sync flows
// ABOUTME: Lets the orchestrator classify failures in its logs without string matching
package sync

import "fmt"

// TransportError wraps a failed network call to the remote service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteStatusError is a response the remote service did answer, but with a
// status outside what the operation accepts. Body is kept for the logs.
type RemoteStatusError struct {
	Op     string
	Status int
	Body   []byte
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("%s: remote returned status %d: %s", e.Op, e.Status, truncate(e.Body, 256))
}

// ParseError is a malformed remote body: not a JSON object, a field of the
// wrong type, or an unparsable date.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse remote user: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse remote user: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PreconditionError is a push requested for a local identity that does not
// resolve to exactly one contact, so no payload can be built.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
