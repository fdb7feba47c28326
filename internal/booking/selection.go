package booking

import (
	"sync"

	"github.com/kirinyoku/cinemago/internal/domain"
)

// Selection is an insertion-ordered set of seats keyed by seat id.
type Selection struct {
	mu    sync.Mutex
	seats []domain.Seat
}

// Toggle removes seat if present and adds it otherwise. Booked seats are
// never added. It reports whether the seat is selected afterwards.
func (s *Selection) Toggle(seat domain.Seat) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.seats {
		if cur.ID == seat.ID {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return false, nil
		}
	}

	if seat.Booked {
		return false, ErrSeatBooked
	}

	s.seats = append(s.seats, seat)
	return true, nil
}

func (s *Selection) Contains(seatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cur := range s.seats {
		if cur.ID == seatID {
			return true
		}
	}
	return false
}

// Seats returns a copy of the selected seats in selection order.
func (s *Selection) Seats() []domain.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seats)
}

func (s *Selection) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	for _, seat := range s.seats {
		sum += seat.Price
	}
	return sum
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats = nil
}
