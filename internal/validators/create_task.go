package validators

import (
	"strings"

	"snow-board.com/snow-board/internal/credentials"
	dto "snow-board.com/snow-board/internal/data_models"
	apperrors "snow-board.com/snow-board/internal/errors"
)

// ValidateCreateTaskRequest trims r in place and checks that every required
// field is present. An empty owner password is accepted; an absent one is not.
func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	r.Name = trim(r.Name)
	r.Phone = trim(r.Phone)
	r.Address = trim(r.Address)
	r.Description = trim(r.Description)

	if r.Name == "" || r.Phone == "" || r.Address == "" {
		return apperrors.ErrMissingFields
	}
	if r.Area <= 0 || r.Price <= 0 {
		return apperrors.ErrMissingFields
	}
	if !r.OwnerPassword.Present {
		return apperrors.ErrMissingFields
	}

	r.OwnerPassword.Value = trim(r.OwnerPassword.Value)
	if len(r.OwnerPassword.Value) > credentials.MaxPasswordBytes {
		return apperrors.ErrPasswordTooLong
	}

	return nil
}

func trim(t dto.Text) dto.Text {
	return dto.Text(strings.TrimSpace(string(t)))
}
