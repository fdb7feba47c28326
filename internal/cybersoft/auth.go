package cybersoft

import (
	"context"
	"net/http"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type credentials struct {
	Account  string `json:"taiKhoan"`
	Password string `json:"matKhau"`
}

// Login exchanges account credentials for the account profile and access token.
func (c *Client) Login(ctx context.Context, account, password string) (*domain.Account, error) {
	var out domain.Account
	err := c.sendJSON(ctx, http.MethodPost, "QuanLyNguoiDung/DangNhap", nil,
		credentials{Account: account, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a customer account. The role is always forced to customer.
func (c *Client) Register(ctx context.Context, u domain.User) error {
	u.Role = domain.RoleCustomer
	if u.Group == "" {
		u.Group = c.group
	}
	return c.sendJSON(ctx, http.MethodPost, "QuanLyNguoiDung/DangKy", nil, u, nil)
}

// AccountInfo returns the profile of the account owning the access token in ctx.
func (c *Client) AccountInfo(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.sendJSON(ctx, http.MethodPost, "QuanLyNguoiDung/ThongTinTaiKhoan", nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
