package serviceutils

import (
	"github.com/labstack/echo/v4"
)

type GenericResponse struct {
	Success bool
	Message string
	Data    interface{} `json:",omitempty"`
	Error   string      `json:",omitempty"`
	Detail  string      `json:",omitempty"`
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// ResponseErrorDetail is ResponseError with a diagnostic detail attached.
// Callers only pass a detail outside production.
func ResponseErrorDetail(c echo.Context, code int, msg string, err error, detail string) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
		Detail:  detail,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}
