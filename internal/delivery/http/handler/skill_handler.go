package handler

import (
	"teamskills/internal/delivery/http/middleware"
	"teamskills/internal/pkg/response"
	"teamskills/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type createSkillRequest struct {
	Name string `json:"name"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(public, protected fiber.Router) {
	if public == nil || protected == nil {
		return
	}

	public.Get("/skills", h.ListSkills)
	public.Get("/skills/:skillId/prerequisites", h.GetPrerequisites)
	public.Get("/skills/:skillId/contributions", h.GetContributions)

	protected.Post("/skills", h.CreateSkill)
	protected.Delete("/skills/:skillId", h.DeleteSkill)
	protected.Post("/skills/:skillId/prerequisites/:prerequisiteId", h.AddPrerequisite)
	protected.Delete("/skills/:skillId/prerequisites/:prerequisiteId", h.RemovePrerequisite)
}

func (h *SkillHandler) ListSkills(c fiber.Ctx) error {
	items, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, skillsPayload(items))
}

func (h *SkillHandler) CreateSkill(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}

	item, err := h.uc.AddSkill(c.Context(), actorID, req.Name)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, skillPayload(item))
}

func (h *SkillHandler) DeleteSkill(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSkill(c.Context(), actorID, skillID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *SkillHandler) GetPrerequisites(c fiber.Ctx) error {
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	items, err := h.uc.GetPrerequisites(c.Context(), skillID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, skillsPayload(items))
}

func (h *SkillHandler) GetContributions(c fiber.Ctx) error {
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	items, err := h.uc.GetContributions(c.Context(), skillID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, skillsPayload(items))
}

func (h *SkillHandler) AddPrerequisite(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}
	prerequisiteID, err := paramUUID(c, "prerequisiteId")
	if err != nil {
		return err
	}

	if err := h.uc.AddPrerequisite(c.Context(), actorID, skillID, prerequisiteID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, nil)
}

func (h *SkillHandler) RemovePrerequisite(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}
	prerequisiteID, err := paramUUID(c, "prerequisiteId")
	if err != nil {
		return err
	}

	if err := h.uc.RemovePrerequisite(c.Context(), actorID, skillID, prerequisiteID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func skillPayload(item usecase.SkillItem) map[string]any {
	return map[string]any{"id": item.ID, "name": item.Name}
}

func skillsPayload(items []usecase.SkillItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, skillPayload(item))
	}
	return out
}

func paramUUID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return id, nil
}
