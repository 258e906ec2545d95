package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pickleshop/internal/domain/apperr"
	"pickleshop/internal/logger"
	"pickleshop/internal/session"
	"pickleshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// identityのエラーコード（auth/...）
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// usecaseのエラーをHTTPに変換する
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	if ae, ok := apperr.AsAuthError(err); ok {
		return c.JSON(authStatus(ae.Code), ErrorResponse{Error: ae.Error(), Code: string(ae.Code)})
	}

	switch {
	case errors.Is(err, apperr.ErrLoginRequired):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "login required", Redirect: "/login"})
	case errors.Is(err, apperr.ErrAccountBlocked):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "account blocked"})
	case errors.Is(err, apperr.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, session.ErrClosed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "session reloaded, retry"})
	}

	// その他はメッセージをそのまま返す
	logger.FromCtx(c.Request().Context()).ErrorContext(c.Request().Context(), "request failed",
		"path", c.Path(), "err", err)

	var f *apperr.Failure
	if errors.As(err, &f) {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: f.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func authStatus(code apperr.AuthCode) int {
	switch code {
	case apperr.AuthInvalidCredential, apperr.AuthUserNotFound:
		return http.StatusUnauthorized
	case apperr.AuthEmailAlreadyInUse, apperr.AuthCredentialAlreadyInUse:
		return http.StatusConflict
	case apperr.AuthUserDisabled, apperr.AuthOperationNotAllowed:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// page（default 1）
func parsePage(c echo.Context) (int, error) {
	v := c.QueryParam("page")
	if v == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	return p, nil
}
