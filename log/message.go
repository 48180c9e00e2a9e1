package log

import (
	"fmt"

	"github.com/peak/gosort/strutil"
)

// Message is an interface to print structured logs.
type Message interface {
	fmt.Stringer
	JSON() string
}

// InfoMessage is a generic message structure for successful engine events:
// a chunk read, a run spilled to a tmp file, a merge step completed.
type InfoMessage struct {
	Operation string `json:"operation"`
	Success   bool   `json:"success"`
	Detail    string `json:"detail,omitempty"`
}

// String is the string representation of InfoMessage.
func (i InfoMessage) String() string {
	if i.Detail == "" {
		return i.Operation
	}
	return fmt.Sprintf("%v: %v", i.Operation, i.Detail)
}

// JSON is the JSON representation of InfoMessage.
func (i InfoMessage) JSON() string {
	i.Success = true
	return strutil.JSON(i)
}

// ErrorMessage is a generic message structure for unsuccessful operations.
type ErrorMessage struct {
	Operation string `json:"operation,omitempty"`
	Err       string `json:"error"`
}

// String is the string representation of ErrorMessage.
func (e ErrorMessage) String() string {
	if e.Operation == "" {
		return e.Err
	}
	return fmt.Sprintf("%q: %v", e.Operation, e.Err)
}

// JSON is the JSON representation of ErrorMessage.
func (e ErrorMessage) JSON() string {
	return strutil.JSON(e)
}

// DebugMessage is a generic message structure for diagnostic trace lines,
// e.g. buffer growth, spill thresholds, merge-tree shape.
type DebugMessage struct {
	Operation string `json:"operation,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// String is the string representation of DebugMessage.
func (d DebugMessage) String() string {
	if d.Operation == "" {
		return d.Detail
	}
	return fmt.Sprintf("%q: %v", d.Operation, d.Detail)
}

// JSON is the JSON representation of DebugMessage.
func (d DebugMessage) JSON() string {
	return strutil.JSON(d)
}
