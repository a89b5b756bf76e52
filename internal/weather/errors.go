package weather

import "errors"

var (
	// ErrIncompleteUpstreamData is returned when a payload lacks a section a
	// normalization call cannot do without.
	ErrIncompleteUpstreamData = errors.New("incomplete upstream data")

	// ErrTransportFailure is returned by providers when the upstream could not be
	// reached or answered with an unusable response.
	ErrTransportFailure = errors.New("weather provider transport failure")
)
