package errors

import "net/http"

var ErrRateLimited = &Exception{
	Message:    "rate limit exceeded",
	StatusCode: http.StatusTooManyRequests,
}
