package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
)

// API codes returned in the envelope.
const (
	CodeOK               = "OK"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
	CodeAlreadyExists    = "RESOURCE_ALREADY_EXISTS"
	CodeDBError          = "DB_ERROR"
	CodeInvalidEndpoint  = "INVALID_ENDPOINT"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeServerError      = "SERVER_ERROR"
)

// Envelope wraps every response.
type Envelope struct {
	OK      bool                      `json:"ok"`
	APICode string                    `json:"apiCode"`
	Data    any                       `json:"data,omitempty"`
	Error   string                    `json:"error,omitempty"`
	Fields  []subscription.FieldError `json:"fields,omitempty"`
}

func sendOK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{OK: true, APICode: CodeOK, Data: data})
}

func sendError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, Envelope{APICode: code, Error: msg})
}
