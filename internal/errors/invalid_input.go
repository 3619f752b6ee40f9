package errors

import "net/http"

var ErrMissingFields = &Exception{
	Message:    "missing required fields",
	StatusCode: http.StatusBadRequest,
}

var ErrPhoneRequired = &Exception{
	Message:    "phone number is required",
	StatusCode: http.StatusBadRequest,
}

var ErrCredentialsRequired = &Exception{
	Message:    "phone number and password are required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidJSON = &Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidArea = &Exception{
	Message:    "area must be a positive integer",
	StatusCode: http.StatusBadRequest,
}

var ErrPasswordTooLong = &Exception{
	Message:    "password must be at most 72 bytes",
	StatusCode: http.StatusBadRequest,
}
