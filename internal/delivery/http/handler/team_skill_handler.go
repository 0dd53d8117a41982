package handler

import (
	"teamskills/internal/pkg/response"
	"teamskills/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TeamSkillHandler struct {
	uc usecase.TeamSkillUsecase
}

func NewTeamSkillHandler(uc usecase.TeamSkillUsecase) *TeamSkillHandler {
	return &TeamSkillHandler{uc: uc}
}

func (h *TeamSkillHandler) RegisterRoutes(public, protected fiber.Router) {
	if public == nil || protected == nil {
		return
	}

	public.Get("/teams/:teamId/skills", h.GetTeamSkills)
	public.Get("/teams/:teamId/statistics", h.GetTeamStatistics)

	protected.Post("/teams/:teamId/skills/:skillId", h.AddTeamSkill)
	protected.Delete("/teams/:teamId/skills/:skillId", h.RemoveTeamSkill)
	protected.Post("/teams/:teamId/skills/:skillId/upvote", h.Upvote)
	protected.Post("/teams/:teamId/skills/:skillId/downvote", h.Downvote)
}

func (h *TeamSkillHandler) GetTeamSkills(c fiber.Ctx) error {
	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}

	items, err := h.uc.GetTeamSkills(c.Context(), teamID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, teamSkillsPayload(items))
}

func (h *TeamSkillHandler) GetTeamStatistics(c fiber.Ctx) error {
	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}

	stats, err := h.uc.GetTeamStatistics(c.Context(), teamID)
	if err != nil {
		return mapOperationError(err)
	}

	data := map[string]any{
		"team_id":     stats.TeamID,
		"skills":      teamSkillsPayload(stats.Skills),
		"total_teams": stats.TotalTeams,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *TeamSkillHandler) AddTeamSkill(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	item, err := h.uc.AddTeamSkill(c.Context(), actorID, teamID, skillID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, teamSkillPayload(item))
}

func (h *TeamSkillHandler) RemoveTeamSkill(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveTeamSkill(c.Context(), actorID, teamID, skillID); err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *TeamSkillHandler) Upvote(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	item, err := h.uc.Upvote(c.Context(), actorID, teamID, skillID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, teamSkillPayload(item))
}

func (h *TeamSkillHandler) Downvote(c fiber.Ctx) error {
	actorID, err := actingUserID(c)
	if err != nil {
		return err
	}

	teamID, err := paramUUID(c, "teamId")
	if err != nil {
		return err
	}
	skillID, err := paramUUID(c, "skillId")
	if err != nil {
		return err
	}

	item, err := h.uc.Downvote(c.Context(), actorID, teamID, skillID)
	if err != nil {
		return mapOperationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, teamSkillPayload(item))
}

func teamSkillPayload(item usecase.TeamSkillItem) map[string]any {
	return map[string]any{
		"team_skill_id":     item.TeamSkillID,
		"team_id":           item.TeamID,
		"skill_id":          item.SkillID,
		"skill_name":        item.SkillName,
		"upvoting_user_ids": item.UpvotingUserIDs,
		"upvotes":           len(item.UpvotingUserIDs),
	}
}

func teamSkillsPayload(items []usecase.TeamSkillItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, teamSkillPayload(item))
	}
	return out
}
