package handler

import (
	"errors"

	"teamskills/internal/delivery/http/middleware"
	"teamskills/internal/operation"
	"teamskills/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapOperationError translates operation error kinds into transport status
// codes. The operation layer itself knows nothing about HTTP.
func mapOperationError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, operation.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, operation.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, operation.ErrAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, response.MessageConflict, nil, err)
	case errors.Is(err, operation.ErrSelfReference):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Skill cannot be its own prerequisite", nil, err)
	case errors.Is(err, operation.ErrDomainRule):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, response.MessageUnprocessableEntity, nil, err)
	case errors.Is(err, operation.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func actingUserID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}
	return userID, nil
}
