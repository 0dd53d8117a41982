package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	VoteActionUpvote   = "upvote"
	VoteActionDownvote = "downvote"
)

type TeamSkillVoteEvent struct {
	Type      string    `json:"type"`
	TeamID    uuid.UUID `json:"team_id"`
	SkillID   uuid.UUID `json:"skill_id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp string    `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyTeamSkillVote broadcasts a vote event to the feed. Fire and forget:
// vote operations never fail on a broadcast problem.
func NotifyTeamSkillVote(teamID, skillID, userID uuid.UUID, action string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := TeamSkillVoteEvent{
		Type:      "team_skill_vote",
		TeamID:    teamID,
		SkillID:   skillID,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
