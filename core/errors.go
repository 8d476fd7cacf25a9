package core

import "errors"

// Common errors
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrNoData        = errors.New("no data for country and year")
	ErrNoMetrics     = errors.New("no metrics requested")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrInvalidOp     = errors.New("invalid condition operator")
	ErrZeroVector    = errors.New("zero-magnitude vector")
	ErrDimension     = errors.New("vector dimensions must match")
)
