package admin

import (
	"errors"
	"fmt"
)

var (
	ErrProtectedAccount   = errors.New("account is protected")
	ErrIncompleteShowtime = errors.New("showtime fields are incomplete")
	ErrInvalidStartTime   = errors.New("invalid showtime start")
	ErrInvalidMovie       = errors.New("movie title is required")
)

// ProtectedAccountError is returned when deleting an account on the protected list.
type ProtectedAccountError struct {
	Account string
}

func (e ProtectedAccountError) Error() string {
	return fmt.Sprintf("account %q is protected", e.Account)
}

func (e ProtectedAccountError) Is(target error) bool { return target == ErrProtectedAccount }

// UserMessage is the text shown to the admin.
func (e ProtectedAccountError) UserMessage() string {
	return fmt.Sprintf("Tài khoản %q được bảo vệ và không thể xóa! Đây là tài khoản admin hệ thống.", e.Account)
}
