package rift

import "errors"

// Sentinel errors returned by Session operations. Callers match them with
// errors.Is; wrapped variants carry the handle or argument that failed.
var (
	// ErrInvalidArgument indicates an out-of-range parameter such as a
	// negative prediction time or an eye index outside [0, 1].
	ErrInvalidArgument = errors.New("rift: invalid argument")

	// ErrCapacityExceeded indicates that all device slots are in use.
	ErrCapacityExceeded = errors.New("rift: too many open devices")

	// ErrNotFound indicates a handle that does not refer to an open device.
	ErrNotFound = errors.New("rift: no device open for handle")

	// ErrNoDevice indicates that no headset is connected and the requested
	// device index cannot be opened.
	ErrNoDevice = errors.New("rift: no device at index")

	// ErrAlreadyTracking indicates a tracking start on a device whose
	// tracker is already running.
	ErrAlreadyTracking = errors.New("rift: tracking already started")

	// ErrSystem wraps failures reported by the underlying runtime.
	ErrSystem = errors.New("rift: runtime failure")
)
