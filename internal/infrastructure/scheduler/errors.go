package scheduler

import "errors"

var (
	// ErrRunInProgress indicates a sync run is already executing; a
	// late-arriving trigger is rejected rather than queued.
	ErrRunInProgress = errors.New("a sync run is already in progress")
	// ErrInvalidSchedule indicates an unparsable cron expression or timezone
	ErrInvalidSchedule = errors.New("invalid sync schedule")
)
