package errors

import "net/http"

var ErrWrongCredentials = &Exception{
	Message:    "wrong phone number or password",
	StatusCode: http.StatusForbidden,
}
