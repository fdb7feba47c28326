package cybersoft

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kirinyoku/cinemago/internal/domain"
)

var ErrImageRequired = errors.New("movie image is required")

func (c *Client) ListMovies(ctx context.Context, group string) ([]domain.Movie, error) {
	if group == "" {
		group = c.group
	}

	var out []domain.Movie
	if err := c.getJSON(ctx, "QuanLyPhim/LayDanhSachPhim", url.Values{"maNhom": {group}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	var out domain.Movie
	q := url.Values{"MaPhim": {strconv.FormatInt(id, 10)}}
	if err := c.getJSON(ctx, "QuanLyPhim/LayThongTinPhim", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddMovie uploads a new movie with its poster.
func (c *Client) AddMovie(ctx context.Context, form domain.MovieForm) error {
	if len(form.Image) == 0 {
		return ErrImageRequired
	}
	return c.uploadMovie(ctx, "QuanLyPhim/ThemPhimUploadHinh", form, "hinhAnh")
}

// UpdateMovie updates a movie. The poster is only replaced when form.Image is set.
func (c *Client) UpdateMovie(ctx context.Context, form domain.MovieForm) error {
	return c.uploadMovie(ctx, "QuanLyPhim/CapNhatPhimUpload", form, "File")
}

func (c *Client) DeleteMovie(ctx context.Context, id int64) error {
	q := url.Values{"MaPhim": {strconv.FormatInt(id, 10)}}
	return c.do(ctx, request{method: http.MethodDelete, path: "QuanLyPhim/XoaPhim", query: q}, nil)
}

func (c *Client) uploadMovie(ctx context.Context, path string, form domain.MovieForm, imageField string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	group := form.Group
	if group == "" {
		group = c.group
	}

	fields := [][2]string{
		{"tenPhim", strings.TrimSpace(form.Title)},
		{"trailer", form.Trailer},
		{"moTa", form.Description},
		{"ngayKhoiChieu", FormatReleaseDate(form.ReleaseDate, time.Now())},
		{"dangChieu", strconv.FormatBool(form.NowShowing)},
		{"sapChieu", strconv.FormatBool(form.ComingSoon)},
		{"hot", strconv.FormatBool(form.Hot)},
		{"danhGia", strconv.FormatFloat(form.Rating, 'f', -1, 64)},
		{"maNhom", group},
	}
	if form.ID != 0 {
		fields = append([][2]string{{"maPhim", strconv.FormatInt(form.ID, 10)}}, fields...)
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if len(form.Image) > 0 {
		name := form.ImageName
		if name == "" {
			name = "poster.jpg"
		}
		part, err := w.CreateFormFile(imageField, name)
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(form.Image); err != nil {
			return fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, nil)
}

// FormatReleaseDate converts YYYY-MM-DD or RFC3339 input to the DD/MM/YYYY
// form the API expects. Input already in DD/MM/YYYY passes through; empty
// input becomes today's date.
func FormatReleaseDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format("02/01/2006")
	}

	if i := strings.Index(s, "T"); i > 0 {
		s = s[:i]
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("02/01/2006")
	}

	return s
}
