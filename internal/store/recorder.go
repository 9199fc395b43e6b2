package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const saveTimeout = 5 * time.Second

// Recorder queues finished rounds and writes them from its own goroutine so
// lobbies never wait on the database.
type Recorder struct {
	repo   Repository
	rounds chan Round
	log    *zap.Logger
}

func NewRecorder(repo Repository, log *zap.Logger, backlog int) *Recorder {
	return &Recorder{repo: repo, rounds: make(chan Round, backlog), log: log}
}

// Record never blocks; when the backlog is full the round is dropped.
func (r *Recorder) Record(round Round) {
	select {
	case r.rounds <- round:
	default:
		r.log.Warn("round history backlog full, dropping round",
			zap.String("lobby", round.LobbyCode),
			zap.String("winner", round.WinnerID))
	}
}

// Run drains the queue until ctx is done, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case round := <-r.rounds:
			r.save(context.Background(), round)
		case <-ctx.Done():
			for {
				select {
				case round := <-r.rounds:
					r.save(context.Background(), round)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) save(parent context.Context, round Round) {
	ctx, cancel := context.WithTimeout(parent, saveTimeout)
	defer cancel()
	if err := r.repo.SaveRound(ctx, &round); err != nil {
		r.log.Error("save round", zap.String("lobby", round.LobbyCode), zap.Error(err))
		return
	}
	r.log.Info("round recorded",
		zap.String("lobby", round.LobbyCode),
		zap.String("winner", round.WinnerID),
		zap.Duration("duration", round.Duration()))
}
