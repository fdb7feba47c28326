// Package booking keeps per-session seat holds: a seat selection guarded by
// a countdown. Holds are a presentation aid; the upstream API alone decides
// seat availability.
package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
)

// Hold is one seat selection for one session and showtime.
type Hold struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	ShowtimeID int64
	CreatedAt  time.Time

	info      domain.ShowtimeInfo
	seats     map[int64]domain.Seat
	selection Selection
	countdown *Countdown

	mu     sync.Mutex
	closed bool
}

// HoldView is a point-in-time snapshot of a hold.
type HoldView struct {
	ID         uuid.UUID           `json:"id"`
	ShowtimeID int64               `json:"showtime_id"`
	Info       domain.ShowtimeInfo `json:"info"`
	Selected   []domain.Seat       `json:"selected"`
	Total      float64             `json:"total"`
	Remaining  int                 `json:"remaining_sec"`
	Expired    bool                `json:"expired"`
}

// Toggle flips the selection state of seatID. The expiry check and the flip
// happen under the hold lock, so an expiring countdown cannot leave a seat
// selected after it cleared the selection.
func (h *Hold) Toggle(seatID int64) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false, ErrHoldClosed
	}
	if h.countdown.Expired() {
		return false, ErrHoldExpired
	}

	seat, ok := h.seats[seatID]
	if !ok {
		return false, ErrSeatNotFound
	}

	return h.selection.Toggle(seat)
}

// ReplaceSeats swaps in a fresh seat map, e.g. after a failed booking showed
// the held one to be stale. Selected seats that are now booked are dropped.
func (h *Hold) ReplaceSeats(seats []domain.Seat) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seats = make(map[int64]domain.Seat, len(seats))
	for _, s := range seats {
		h.seats[s.ID] = s
	}

	for _, sel := range h.selection.Seats() {
		if cur, ok := h.seats[sel.ID]; !ok || cur.Booked {
			_, _ = h.selection.Toggle(sel)
		}
	}
}

// Tickets returns the booking lines for the current selection.
func (h *Hold) Tickets() ([]domain.Ticket, error) {
	if h.isClosed() {
		return nil, ErrHoldClosed
	}
	if h.countdown.Expired() {
		return nil, ErrHoldExpired
	}

	seats := h.selection.Seats()
	if len(seats) == 0 {
		return nil, ErrEmptySelection
	}

	out := make([]domain.Ticket, 0, len(seats))
	for _, s := range seats {
		out = append(out, domain.Ticket{SeatID: s.ID, Price: s.Price})
	}
	return out, nil
}

// Order builds the confirmation record for the current selection.
func (h *Hold) Order(account, code string, at time.Time) domain.Order {
	seats := h.selection.Seats()

	o := domain.Order{
		Code:        code,
		Account:     account,
		PurchasedAt: at,
		ShowtimeID:  h.ShowtimeID,
		MovieTitle:  h.info.Title,
		MoviePoster: h.info.Poster,
		ClusterName: h.info.ClusterName,
		TheaterName: h.info.TheaterName,
		Address:     h.info.Address,
		Date:        h.info.Date,
		Time:        h.info.Time,
		Seats:       make([]domain.OrderSeat, 0, len(seats)),
	}
	for _, s := range seats {
		o.Seats = append(o.Seats, domain.OrderSeat{SeatID: s.ID, Name: s.Name, Type: s.Type, Price: s.Price})
		o.Total += s.Price
	}
	return o
}

func (h *Hold) ClearSelection() { h.selection.Clear() }

func (h *Hold) View() HoldView {
	return HoldView{
		ID:         h.ID,
		ShowtimeID: h.ShowtimeID,
		Info:       h.info,
		Selected:   h.selection.Seats(),
		Total:      h.selection.Total(),
		Remaining:  h.countdown.Remaining(),
		Expired:    h.countdown.Expired(),
	}
}

func (h *Hold) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.countdown.Stop()
	h.selection.Clear()
}

func (h *Hold) expire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection.Clear()
}

func (h *Hold) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Manager owns the live holds of this process.
type Manager struct {
	clk         clock.Clock
	holdSeconds int
	reapAfter   time.Duration

	mu    sync.Mutex
	holds map[uuid.UUID]*Hold
}

type ManagerConfig struct {
	HoldSeconds int
	// ReapAfter is how long an expired hold stays readable before removal.
	ReapAfter time.Duration
}

func NewManager(clk clock.Clock, cfg ManagerConfig) *Manager {
	if clk == nil {
		clk = clock.Real{}
	}
	if cfg.HoldSeconds <= 0 {
		cfg.HoldSeconds = 600
	}
	if cfg.ReapAfter <= 0 {
		cfg.ReapAfter = time.Minute
	}
	return &Manager{
		clk:         clk,
		holdSeconds: cfg.HoldSeconds,
		reapAfter:   cfg.ReapAfter,
		holds:       make(map[uuid.UUID]*Hold),
	}
}

// Open starts a hold over seatMap for the session. Its countdown begins immediately.
func (m *Manager) Open(sessionID uuid.UUID, showtimeID int64, seatMap *domain.SeatMap) *Hold {
	h := &Hold{
		ID:         uuid.New(),
		SessionID:  sessionID,
		ShowtimeID: showtimeID,
		CreatedAt:  m.clk.Now(),
		info:       seatMap.Info,
		seats:      make(map[int64]domain.Seat, len(seatMap.Seats)),
	}
	for _, s := range seatMap.Seats {
		h.seats[s.ID] = s
	}

	h.countdown = NewCountdown(m.clk, m.holdSeconds, time.Second, func() {
		h.expire()
		m.clk.AfterFunc(m.reapAfter, func() { m.Close(h.ID) })
	})

	m.mu.Lock()
	m.holds[h.ID] = h
	m.mu.Unlock()

	h.countdown.Start()
	return h
}

// Get returns the hold if it exists and belongs to sessionID.
func (m *Manager) Get(sessionID, holdID uuid.UUID) (*Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.holds[holdID]
	if !ok || h.SessionID != sessionID {
		return nil, ErrHoldNotFound
	}
	return h, nil
}

func (m *Manager) Close(holdID uuid.UUID) {
	m.mu.Lock()
	h, ok := m.holds[holdID]
	delete(m.holds, holdID)
	m.mu.Unlock()

	if ok {
		h.close()
	}
}

// CloseSession closes every hold owned by sessionID.
func (m *Manager) CloseSession(sessionID uuid.UUID) int {
	m.mu.Lock()
	var owned []*Hold
	for id, h := range m.holds {
		if h.SessionID == sessionID {
			owned = append(owned, h)
			delete(m.holds, id)
		}
	}
	m.mu.Unlock()

	for _, h := range owned {
		h.close()
	}
	return len(owned)
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.holds
	m.holds = make(map[uuid.UUID]*Hold)
	m.mu.Unlock()

	for _, h := range all {
		h.close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.holds)
}
