package cybersoft

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"bad request without content", &APIError{Status: 400}, MsgInvalidData},
		{"bad request with content", &APIError{Status: 400, Content: "Ghế đã có người đặt"}, "Ghế đã có người đặt"},
		{"unauthorized", &APIError{Status: 401}, MsgUnauthorized},
		{"forbidden", &APIError{Status: 403}, MsgForbidden},
		{"not found", &APIError{Status: 404}, MsgNotFound},
		{"server error with content", &APIError{Status: 500, Content: "boom"}, "Lỗi server: boom"},
		{"server error bare", &APIError{Status: 500}, MsgServerError},
		{"network", &APIError{Network: true, Err: errors.New("dial")}, MsgNetworkError},
		{"other status uses message", &APIError{Status: 409, Message: "trùng"}, "trùng"},
		{"wrapped", fmt.Errorf("op: %w", &APIError{Status: 403}), MsgForbidden},
		{"foreign error", errors.New("x"), MsgUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, HTTPStatus(&APIError{Status: 403}))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(&APIError{Network: true}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}
