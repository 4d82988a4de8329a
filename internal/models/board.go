package models

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the stage a retrospective board is in. Phases advance in order:
// collect, group, vote, act.
type Phase string

const (
	PhaseCollect Phase = "collect"
	PhaseGroup   Phase = "group"
	PhaseVote    Phase = "vote"
	PhaseAct     Phase = "act"
)

// Phases lists every phase in the order a board moves through them.
var Phases = []Phase{PhaseCollect, PhaseGroup, PhaseVote, PhaseAct}

// ParsePhase maps a user supplied phase name to a Phase
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Phases {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid phase '%s' (must be: collect, group, vote, act)", s)
}

// Index returns the position of the phase in Phases, or -1 if unknown
func (p Phase) Index() int {
	for i, known := range Phases {
		if p == known {
			return i
		}
	}
	return -1
}

// Next returns the phase following p. ok is false when p is the last phase.
func (p Phase) Next() (next Phase, ok bool) {
	i := p.Index()
	if i < 0 || i == len(Phases)-1 {
		return "", false
	}
	return Phases[i+1], true
}

// Board is a single retrospective session
type Board struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	CreatedBy       string    `json:"created_by"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	IsAnonymous     bool      `json:"is_anonymous"`
	Phase           Phase     `json:"phase"`
	IsArchived      bool      `json:"is_archived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GetID returns the board ID (used by quiet output)
func (b *Board) GetID() int {
	return b.ID
}
