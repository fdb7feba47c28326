package catalog

import "errors"

var ErrNoSchedule = errors.New("movie has no showtime schedule")
