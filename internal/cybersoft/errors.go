package cybersoft

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failed upstream call. Network is set when no HTTP response
// was received.
type APIError struct {
	Status  int
	Path    string
	Message string
	Content string
	Network bool
	Err     error
}

func (e *APIError) Error() string {
	if e.Network {
		return fmt.Sprintf("cybersoft %s: network error: %v", e.Path, e.Err)
	}
	if e.Content != "" {
		return fmt.Sprintf("cybersoft %s: status %d: %s: %s", e.Path, e.Status, e.Message, e.Content)
	}
	return fmt.Sprintf("cybersoft %s: status %d: %s", e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// User-facing messages shown for upstream failures.
const (
	MsgInvalidData   = "Dữ liệu không hợp lệ"
	MsgUnauthorized  = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại!"
	MsgForbidden     = "Không có quyền thực hiện chức năng này!"
	MsgNotFound      = "Không tìm thấy dữ liệu!"
	MsgServerError   = "Lỗi server nội bộ!"
	MsgNetworkError  = "Lỗi kết nối mạng. Vui lòng kiểm tra kết nối internet!"
	MsgUnknownError  = "Có lỗi không xác định xảy ra!"
	serverErrorShape = "Lỗi server: %s"
)

// UserMessage translates err into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return MsgUnknownError
	}

	if apiErr.Network {
		return MsgNetworkError
	}

	switch apiErr.Status {
	case http.StatusBadRequest:
		if apiErr.Content != "" {
			return apiErr.Content
		}
		return MsgInvalidData
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		if apiErr.Content != "" {
			return fmt.Sprintf(serverErrorShape, apiErr.Content)
		}
		if apiErr.Message != "" {
			return fmt.Sprintf(serverErrorShape, apiErr.Message)
		}
		return MsgServerError
	}

	if apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgUnknownError
}

// HTTPStatus picks the status a gateway should answer with for err.
// Network failures become 502.
func HTTPStatus(err error) int {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	if apiErr.Network || apiErr.Status == 0 {
		return http.StatusBadGateway
	}
	return apiErr.Status
}
