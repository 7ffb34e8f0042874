package scheduler

import "errors"

// ErrInvalidSchedule is returned when the cron expression cannot be parsed
var ErrInvalidSchedule = errors.New("invalid cron schedule")
