package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"unihub/internal/auth"
	"unihub/internal/content"
	"unihub/internal/http/middleware"
	"unihub/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response. message must be safe
// to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, middleware.ErrMissingToken):
		return "Not authenticated"
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Could not validate credentials"
	}
}

// storeUnavailable reports errors that mean a backing store cannot be reached.
func storeUnavailable(err error) bool {
	return errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}

// fail translates a service error into the error envelope. Errors without a
// client-facing meaning are logged and answered with an opaque 500.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, verr.Code, verr.Message)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusBadRequest, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrIncorrectPassword):
		return writeError(c, fiber.StatusBadRequest, "INCORRECT_PASSWORD", "Current password is incorrect")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenInvalid):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return writeError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", authMessage(err))
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrFileNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrAvatarNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "avatar not found")
	case errors.Is(err, content.ErrUnreadableFile):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNREADABLE_FILE", "could not extract text from the file")
	case storeUnavailable(err):
		log.Error("store_unavailable",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable")
	default:
		log.Error("request_failed",
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *middleware.AuthError
		if errors.As(err, &ae) {
			return writeError(c, ae.HTTPStatus(), ae.Code, authMessage(ae.Err))
		}

		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return fail(c, log, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusUnprocessableEntity:
			return writeError(c, fe.Code, "UNPROCESSABLE_ENTITY", "unprocessable request body")
		default:
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, "REQUEST_ERROR", fe.Message)
			}
			return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
		}
	}
}
