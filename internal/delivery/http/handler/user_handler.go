package handler

import (
	"teamskills/internal/delivery/http/middleware"
	"teamskills/internal/permissions"
	"teamskills/internal/pkg/response"
	"teamskills/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type permissionGrantRequest struct {
	Permissions []string `json:"permissions"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(protected fiber.Router) {
	if protected == nil {
		return
	}

	protected.Get("/users", h.ListUsers)
	protected.Get("/users/:userId/permissions", h.GetUserPermissions)
	protected.Post("/users/:userId/permissions", h.AddUserPermissions)
	protected.Delete("/users/:userId/permissions", h.RemoveUserPermissions)
}

func (h *UserHandler) ListUsers(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	users, err := h.uc.ListUsers(c.Context(), actorID)
	if err != nil {
		return mapOperationError(err)
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{"id": u.ID, "email": u.Email})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *UserHandler) GetUserPermissions(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	perms, err := h.uc.GetUserPermissions(c.Context(), actorID, userID)
	if err != nil {
		return mapOperationError(err)
	}

	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"permissions": out})
}

func (h *UserHandler) AddUserPermissions(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	perms, err := parsePermissionGrant(c)
	if err != nil {
		return err
	}

	if err := h.uc.AddUserPermissions(c.Context(), actorID, userID, perms); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *UserHandler) RemoveUserPermissions(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	perms, err := parsePermissionGrant(c)
	if err != nil {
		return err
	}

	if err := h.uc.RemoveUserPermissions(c.Context(), actorID, userID, perms); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func parsePermissionGrant(c fiber.Ctx) ([]permissions.Permission, error) {
	var req permissionGrantRequest
	if err := c.Bind().Body(&req); err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	if len(req.Permissions) == 0 {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, nil)
	}

	perms := make([]permissions.Permission, 0, len(req.Permissions))
	for _, raw := range req.Permissions {
		p, ok := permissions.Parse(raw)
		if !ok {
			return nil, middleware.NewAppError(fiber.StatusBadRequest, "Unknown permission: "+raw, nil, nil)
		}
		perms = append(perms, p)
	}
	return perms, nil
}
