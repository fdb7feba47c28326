package cybersoft

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kirinyoku/cinemago/internal/domain"
)

func (c *Client) ListCinemaSystems(ctx context.Context) ([]domain.CinemaSystem, error) {
	var out []domain.CinemaSystem
	if err := c.getJSON(ctx, "QuanLyRap/LayThongTinHeThongRap", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListClustersBySystem(ctx context.Context, systemID string) ([]domain.Cluster, error) {
	var out []domain.Cluster
	q := url.Values{"maHeThongRap": {systemID}}
	if err := c.getJSON(ctx, "QuanLyRap/LayThongTinCumRapTheoHeThong", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MovieShowtimes returns the schedule of one movie grouped by cinema system and cluster.
func (c *Client) MovieShowtimes(ctx context.Context, movieID int64) (*domain.MovieSchedule, error) {
	var out domain.MovieSchedule
	q := url.Values{"MaPhim": {strconv.FormatInt(movieID, 10)}}
	if err := c.getJSON(ctx, "QuanLyRap/LayThongTinLichChieuPhim", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
