package kalman

import "errors"

// ErrInsufficientSatellites is returned when fewer than the configured
// (floor 4) observations survive elevation/slip screening for an epoch
// (spec.md §4.H). The filter's state and covariance are left unchanged.
var ErrInsufficientSatellites = errors.New("kalman: insufficient satellites for epoch")

// ErrNumericalFailure is returned when an observation's innovation variance
// is not positive during measurement update (spec.md §4.H). The filter's state and covariance are
// left unchanged.
var ErrNumericalFailure = errors.New("kalman: numerical failure during update")
