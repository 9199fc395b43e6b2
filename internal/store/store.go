package store

import (
	"context"
	"time"
)

// Round is one finished deal-to-win cycle.
type Round struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LobbyCode  string    `gorm:"size:6;index;not null" json:"lobbyCode"`
	WinnerID   string    `gorm:"size:36;not null" json:"winnerId"`
	WinnerName string    `gorm:"size:64" json:"winnerName"`
	Players    int       `gorm:"not null" json:"players"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `gorm:"index" json:"endedAt"`
}

func (r Round) Duration() time.Duration { return r.EndedAt.Sub(r.StartedAt) }

type Repository interface {
	SaveRound(ctx context.Context, r *Round) error
	// RecentRounds lists rounds newest first.
	RecentRounds(ctx context.Context, limit int) ([]Round, error)
	Close() error
}
