package errors

import "net/http"

var ErrSiteLocked = &Exception{
	Message:    "site password required",
	StatusCode: http.StatusUnauthorized,
}
