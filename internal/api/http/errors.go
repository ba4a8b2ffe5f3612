package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidationFailed: fiber.StatusBadRequest,
	apperrors.KindUnauthorized:     fiber.StatusUnauthorized,
	apperrors.KindAccessDenied:     fiber.StatusForbidden,
	apperrors.KindNotFound:         fiber.StatusNotFound,
	apperrors.KindConflict:         fiber.StatusConflict,
	apperrors.KindInvalidState:     fiber.StatusConflict,
	apperrors.KindInternal:         fiber.StatusInternalServerError,
}

// StatusForKind maps an error classification onto an HTTP status.
func StatusForKind(kind apperrors.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// resolveError returns the status and the error body to render. Framework errors
// such as unknown routes keep their own status.
func resolveError(err error) (int, *apperrors.DomainError) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fiberErr.Code), " ", "_"))
		if fiberErr.Code == fiber.StatusNotFound {
			code = string(apperrors.KindNotFound)
		}
		if code == "" {
			code = "HTTP_ERROR"
		}
		return fiberErr.Code, &apperrors.DomainError{Code: code, Message: fiberErr.Message}
	}
	domainErr := apperrors.ToDomainError(err)
	return StatusForKind(domainErr.Kind), domainErr
}
