package handler

import (
	"teamskills/internal/delivery/http/middleware"
	"teamskills/internal/pkg/response"
	"teamskills/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TeamHandler struct {
	uc usecase.TeamUsecase
}

type createTeamRequest struct {
	Name string `json:"name"`
}

type setMemberAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

func NewTeamHandler(uc usecase.TeamUsecase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

func (h *TeamHandler) RegisterRoutes(public, protected fiber.Router) {
	if public == nil || protected == nil {
		return
	}

	public.Get("/teams", h.ListTeams)
	public.Get("/teams/:teamId/members", h.GetTeamMembers)

	protected.Post("/teams", h.CreateTeam)
	protected.Delete("/teams/:teamId", h.DeleteTeam)
	protected.Post("/teams/:teamId/members/:userId", h.AddUserToTeam)
	protected.Delete("/teams/:teamId/members/:userId", h.RemoveUserFromTeam)
	protected.Put("/teams/:teamId/members/:userId/admin", h.SetTeamMemberAdmin)
}

func (h *TeamHandler) ListTeams(c fiber.Ctx) error {
	items, err := h.uc.ListTeams(c.Context())
	if err != nil {
		return mapOperationError(err)
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{"id": item.ID, "name": item.Name})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *TeamHandler) CreateTeam(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req createTeamRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	item, err := h.uc.CreateTeam(c.Context(), actorID, req.Name)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, map[string]any{"id": item.ID, "name": item.Name})
}

func (h *TeamHandler) DeleteTeam(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTeam(c.Context(), actorID, teamID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *TeamHandler) GetTeamMembers(c fiber.Ctx) error {
	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}

	members, err := h.uc.GetTeamMembers(c.Context(), teamID)
	if err != nil {
		return mapOperationError(err)
	}

	out := make([]map[string]any, 0, len(members))
	for _, m := range members {
		out = append(out, map[string]any{"user_id": m.UserID, "email": m.Email, "is_admin": m.IsAdmin})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *TeamHandler) AddUserToTeam(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.uc.AddUserToTeam(c.Context(), actorID, teamID, userID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, nil)
}

func (h *TeamHandler) RemoveUserFromTeam(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveUserFromTeam(c.Context(), actorID, teamID, userID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *TeamHandler) SetTeamMemberAdmin(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "userId")
	if err != nil {
		return err
	}

	var req setMemberAdminRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	if err := h.uc.SetTeamMemberAdmin(c.Context(), actorID, teamID, userID, req.IsAdmin); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
