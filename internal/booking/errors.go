package booking

import "errors"

var (
	ErrSeatBooked     = errors.New("seat already booked")
	ErrSeatNotFound   = errors.New("seat not in this showtime")
	ErrHoldNotFound   = errors.New("hold not found")
	ErrHoldExpired    = errors.New("hold countdown expired")
	ErrEmptySelection = errors.New("no seats selected")
	ErrHoldClosed     = errors.New("hold closed")
)
