package pipeline

import "errors"

// Failure classes for a report run. Every failure is terminal: there is
// no retry and no partial delivery at any stage.
var (
	// ErrConfiguration covers invalid options (recipient syntax, date
	// format, inverted window). Raised before any external system is
	// contacted.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDataSource covers scheduler database connection and query
	// failures.
	ErrDataSource = errors.New("scheduler data source failure")

	// ErrEmptyResult means the period filter left no executions to
	// analyse. Distinct from a data-source failure: the store answered,
	// there was just nothing in range.
	ErrEmptyResult = errors.New("no job executions in the requested period")

	// ErrDelivery covers attachment, authentication, and transmission
	// failures while mailing the report. The rendered artifact is left
	// on disk for inspection.
	ErrDelivery = errors.New("report delivery failure")
)
