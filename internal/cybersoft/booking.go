package cybersoft

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type bookingRequest struct {
	ShowtimeID int64           `json:"maLichChieu"`
	Tickets    []domain.Ticket `json:"danhSachVe"`
}

// SeatMap returns the showtime info and its seats.
func (c *Client) SeatMap(ctx context.Context, showtimeID int64) (*domain.SeatMap, error) {
	var out domain.SeatMap
	q := url.Values{"MaLichChieu": {strconv.FormatInt(showtimeID, 10)}}
	if err := c.getJSON(ctx, "QuanLyDatVe/LayDanhSachPhongVe", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookTickets submits a booking for the account owning the access token in ctx.
func (c *Client) BookTickets(ctx context.Context, showtimeID int64, tickets []domain.Ticket) error {
	return c.sendJSON(ctx, http.MethodPost, "QuanLyDatVe/DatVe", nil,
		bookingRequest{ShowtimeID: showtimeID, Tickets: tickets}, nil)
}

func (c *Client) CreateShowtime(ctx context.Context, s domain.NewShowtime) error {
	return c.sendJSON(ctx, http.MethodPost, "QuanLyDatVe/TaoLichChieu", nil, s, nil)
}
