// Package broker holds the bridge error type shared by all broker
// implementations.
package broker

import "fmt"

// BridgeError reports a failed or timed-out call to the terminal bridge.
// Evaluations surface it as a failure; the pipeline never retries silently.
type BridgeError struct {
	Op  string
	Err error
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge %s: %v", e.Op, e.Err)
}

func (e *BridgeError) Unwrap() error { return e.Err }
