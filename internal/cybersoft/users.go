package cybersoft

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kirinyoku/cinemago/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context, group string) ([]domain.User, error) {
	if group == "" {
		group = c.group
	}

	var out []domain.User
	if err := c.getJSON(ctx, "QuanLyNguoiDung/LayDanhSachNguoiDung", url.Values{"MaNhom": {group}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchUsers(ctx context.Context, group, keyword string) ([]domain.User, error) {
	if group == "" {
		group = c.group
	}

	var out []domain.User
	q := url.Values{"MaNhom": {group}, "tuKhoa": {keyword}}
	if err := c.getJSON(ctx, "QuanLyNguoiDung/TimKiemNguoiDung", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddUser(ctx context.Context, u domain.User) error {
	if u.Group == "" {
		u.Group = c.group
	}
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	return c.sendJSON(ctx, http.MethodPost, "QuanLyNguoiDung/ThemNguoiDung", nil, u, nil)
}

func (c *Client) UpdateUser(ctx context.Context, u domain.User) error {
	if u.Group == "" {
		u.Group = c.group
	}
	return c.sendJSON(ctx, http.MethodPost, "QuanLyNguoiDung/CapNhatThongTinNguoiDung", nil, u, nil)
}

func (c *Client) DeleteUser(ctx context.Context, account string) error {
	q := url.Values{"TaiKhoan": {account}}
	return c.do(ctx, request{method: http.MethodDelete, path: "QuanLyNguoiDung/XoaNguoiDung", query: q}, nil)
}
