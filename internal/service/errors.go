package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindNetwork means no response was received.
	KindNetwork ErrorKind = iota + 1

	// KindServer means a non-2xx response carried an error message.
	KindServer

	// KindServerUnstructured means a non-2xx response had no usable error message.
	KindServerUnstructured
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindServerUnstructured:
		return "server-unstructured"
	default:
		return "unknown"
	}
}

// Error is the normalized failure of a backend call.
type Error struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 for network failures
	Message string // server message for KindServer, otherwise filled by the caller
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d)", e.Kind, e.Status)
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsAuth reports whether err is a server rejection of the session.
func IsAuth(err error) bool {
	se, ok := AsError(err)
	if !ok {
		return false
	}
	return se.Status == 401 || se.Status == 403
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	se, ok := AsError(err)
	return ok && se.Status == 404
}
