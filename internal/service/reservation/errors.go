package reservation

import "errors"

var ErrRequestInProgress = errors.New("a request with this idempotency key is in progress")
