package storage

import (
	"errors"
	"fmt"
)

// RemoteRejected means the store answered and refused the operation.
type RemoteRejected struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteRejected) Error() string {
	return fmt.Sprintf("%s rejected (%d): %s", e.Op, e.Status, e.Message)
}

// TransportFailure means no usable answer came back from the store.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

func IsRemoteRejected(err error) bool {
	var rr *RemoteRejected
	return errors.As(err, &rr)
}

func IsTransportFailure(err error) bool {
	var tf *TransportFailure
	return errors.As(err, &tf)
}
