package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-notes/errors"
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleSuccess writes a 200 envelope
func HandleSuccess(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}

// HandleCreated writes a 201 envelope
func HandleCreated(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, successResponse{Success: true, Data: data})
}

// HandleList writes a 200 envelope with a count field
func HandleList(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: data, Count: &count})
}

// HandleMessage writes a 200 envelope with a message instead of data
func HandleMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: message})
}

// HandleError maps an application error to the response envelope.
// Unknown errors become an opaque 500.
func HandleError(c echo.Context, logger *zap.Logger, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(err))
		}
		return c.JSON(appErr.HTTPCode, errorResponse{Success: false, Error: appErr.Message})
	}

	logger.Error("unhandled error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorResponse{Success: false, Error: "Internal server error"})
}

// HandleBadRequest writes a 400 envelope with a literal message
func HandleBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Success: false, Error: message})
}
