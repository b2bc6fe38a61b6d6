package handlers

import (
	"strconv"
	"strings"

	"orderdesk/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

func queryBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.QueryParam(name))
	return b
}

func bindError(c echo.Context) error {
	return common.SendClientError(c, "Invalid request format")
}
