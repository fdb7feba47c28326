package httpgin

import (
	"time"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type LoginRequest struct {
	Account  string `json:"taiKhoan"`
	Password string `json:"matKhau"`
}

type RegisterRequest struct {
	Account  string `json:"taiKhoan" binding:"required"`
	Password string `json:"matKhau" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"soDt"`
	FullName string `json:"hoTen" binding:"required"`
}

type UserRequest struct {
	Account  string `json:"taiKhoan" binding:"required"`
	Password string `json:"matKhau"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"soDt"`
	Group    string `json:"maNhom"`
	Role     string `json:"maLoaiNguoiDung" binding:"required,oneof=KhachHang QuanTri"`
	FullName string `json:"hoTen" binding:"required"`
}

func (r UserRequest) user() domain.User {
	return domain.User{
		Account:  r.Account,
		Password: r.Password,
		Email:    r.Email,
		Phone:    r.Phone,
		Group:    r.Group,
		Role:     r.Role,
		FullName: r.FullName,
	}
}

type CreateShowtimeRequest struct {
	MovieID   int64   `json:"maPhim"`
	StartsAt  string  `json:"ngayChieuGioChieu"`
	ClusterID string  `json:"maRap"`
	Price     float64 `json:"giaVe"`
}

type LoginResponse struct {
	SessionID   string    `json:"session_id"`
	Account     string    `json:"account"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

func newLoginResponse(s *domain.Session) LoginResponse {
	return LoginResponse{
		SessionID:   s.ID.String(),
		Account:     s.Account,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		ExpiresAt:   s.ExpiresAt,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
