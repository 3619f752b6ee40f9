package errors

import "net/http"

var ErrTaskAlreadyTaken = &Exception{
	Message:    "task is already taken",
	StatusCode: http.StatusConflict,
}
