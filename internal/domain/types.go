package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role values used by the upstream user records.
const (
	RoleAdmin    = "QuanTri"
	RoleCustomer = "KhachHang"
)

// Session identifies a logged-in user and carries the upstream access token.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Account        string    `json:"account"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role"`
	AccessToken    string    `json:"access_token"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at,omitempty"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Expired reports whether the session is past its token expiry or idle window.
func (s *Session) Expired(now time.Time, idle time.Duration) bool {
	if s == nil {
		return true
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return true
	}
	return idle > 0 && now.Sub(s.LastActivityAt) >= idle
}

// Account is the upstream login payload.
type Account struct {
	Account     string `json:"taiKhoan"`
	FullName    string `json:"hoTen"`
	Email       string `json:"email"`
	Phone       string `json:"soDT"`
	Group       string `json:"maNhom"`
	Role        string `json:"maLoaiNguoiDung"`
	AccessToken string `json:"accessToken"`
}

type Movie struct {
	ID          int64   `json:"maPhim"`
	Title       string  `json:"tenPhim"`
	Alias       string  `json:"biDanh,omitempty"`
	Trailer     string  `json:"trailer,omitempty"`
	Poster      string  `json:"hinhAnh"`
	Description string  `json:"moTa,omitempty"`
	Group       string  `json:"maNhom,omitempty"`
	ReleaseDate string  `json:"ngayKhoiChieu"`
	Rating      float64 `json:"danhGia"`
	Hot         bool    `json:"hot"`
	NowShowing  bool    `json:"dangChieu"`
	ComingSoon  bool    `json:"sapChieu"`
}

// MovieDetail combines movie info with its showtime schedule. Info may be
// derived from the schedule when the info lookup fails.
type MovieDetail struct {
	Info      *Movie         `json:"info"`
	Showtimes *MovieSchedule `json:"showtimes"`
}

type MovieSchedule struct {
	MovieID       int64                  `json:"maPhim"`
	Title         string                 `json:"tenPhim"`
	Poster        string                 `json:"hinhAnh"`
	CinemaSystems []CinemaSystemSchedule `json:"heThongRapChieu"`
}

type CinemaSystemSchedule struct {
	SystemID string            `json:"maHeThongRap"`
	Name     string            `json:"tenHeThongRap"`
	Logo     string            `json:"logo"`
	Clusters []ClusterSchedule `json:"cumRapChieu"`
}

type ClusterSchedule struct {
	ClusterID string     `json:"maCumRap"`
	Name      string     `json:"tenCumRap"`
	Address   string     `json:"diaChi"`
	Showtimes []Showtime `json:"lichChieuPhim"`
}

type Showtime struct {
	ID        string  `json:"maLichChieu"`
	TheaterID string  `json:"maRap"`
	Theater   string  `json:"tenRap"`
	StartsAt  string  `json:"ngayChieuGioChieu"`
	Price     float64 `json:"giaVe"`
	Duration  int     `json:"thoiLuong"`
}

type CinemaSystem struct {
	ID    string `json:"maHeThongRap"`
	Name  string `json:"tenHeThongRap"`
	Alias string `json:"biDanh"`
	Logo  string `json:"logo"`
}

type Cluster struct {
	ID       string    `json:"maCumRap"`
	Name     string    `json:"tenCumRap"`
	Address  string    `json:"diaChi"`
	Theaters []Theater `json:"danhSachRap"`
}

type Theater struct {
	ID   int64  `json:"maRap"`
	Name string `json:"tenRap"`
}

// SeatMap is the room layout for one showtime.
type SeatMap struct {
	Info  ShowtimeInfo `json:"thongTinPhim"`
	Seats []Seat       `json:"danhSachGhe"`
}

type ShowtimeInfo struct {
	ShowtimeID  int64  `json:"maLichChieu"`
	ClusterName string `json:"tenCumRap"`
	TheaterName string `json:"tenRap"`
	Address     string `json:"diaChi"`
	Title       string `json:"tenPhim"`
	Poster      string `json:"hinhAnh"`
	Date        string `json:"ngayChieu"`
	Time        string `json:"gioChieu"`
}

type Seat struct {
	ID        int64   `json:"maGhe"`
	Name      string  `json:"tenGhe"`
	TheaterID int64   `json:"maRap"`
	Type      string  `json:"loaiGhe"`
	Order     string  `json:"stt"`
	Price     float64 `json:"giaVe"`
	Booked    bool    `json:"daDat"`
	BookedBy  *string `json:"taiKhoanNguoiDat"`
}

// Ticket is one line of a booking submission.
type Ticket struct {
	SeatID int64   `json:"maGhe"`
	Price  float64 `json:"giaVe"`
}

type User struct {
	Account  string `json:"taiKhoan"`
	Password string `json:"matKhau,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"soDt"`
	Group    string `json:"maNhom,omitempty"`
	Role     string `json:"maLoaiNguoiDung"`
	FullName string `json:"hoTen"`
}

// MovieForm is the multipart payload for adding or updating a movie.
type MovieForm struct {
	ID          int64
	Title       string
	Trailer     string
	Description string
	ReleaseDate string
	NowShowing  bool
	ComingSoon  bool
	Hot         bool
	Rating      float64
	Group       string
	ImageName   string
	Image       []byte
}

type NewShowtime struct {
	MovieID   int64   `json:"maPhim"`
	StartsAt  string  `json:"ngayChieuGioChieu"`
	ClusterID string  `json:"maRap"`
	Price     float64 `json:"giaVe"`
}

// Order is a confirmed booking kept for the confirmation view.
type Order struct {
	Code        string      `json:"code"`
	Account     string      `json:"account"`
	PurchasedAt time.Time   `json:"purchased_at"`
	ShowtimeID  int64       `json:"showtime_id"`
	MovieTitle  string      `json:"movie_title"`
	MoviePoster string      `json:"movie_poster"`
	ClusterName string      `json:"cluster_name"`
	TheaterName string      `json:"theater_name"`
	Address     string      `json:"address"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Seats       []OrderSeat `json:"seats"`
	Total       float64     `json:"total"`
}

type OrderSeat struct {
	SeatID int64   `json:"seat_id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
}

// AuditEntry records one admin mutation.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}
