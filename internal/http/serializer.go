package http

import (
	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	apperrors "priority-tasks.com/priority-tasks/internal/errors"
)

// SonicSerializer is an echo.JSONSerializer backed by sonic.
type SonicSerializer struct{}

func (SonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (SonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return apperrors.ErrInvalidPayload
	}
	return nil
}
