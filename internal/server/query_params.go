package server

import (
	"errors"
	"strconv"
	"strings"
)

func parseOptionalInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errors.New("invalid_number")
	}
	return parsed, nil
}
