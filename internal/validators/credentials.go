package validators

import (
	"strings"

	dto "snow-board.com/snow-board/internal/data_models"
	apperrors "snow-board.com/snow-board/internal/errors"
)

func ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", apperrors.ErrPhoneRequired
	}
	return phone, nil
}

// ValidateOwnerCredentials trims both halves of the pair; neither may be blank.
func ValidateOwnerCredentials(c *dto.OwnerCredentials) error {
	c.Phone = trim(c.Phone)
	c.Password = trim(c.Password)

	if c.Phone == "" || c.Password == "" {
		return apperrors.ErrCredentialsRequired
	}
	return nil
}

func ValidateArea(area int64) error {
	if area <= 0 {
		return apperrors.ErrInvalidArea
	}
	return nil
}
