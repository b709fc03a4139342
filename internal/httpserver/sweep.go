// internal/httpserver/sweep.go
//
// Periodic removal of games nobody is scoring any more.
// Finished games stay readable for a grace period so watchers can see the
// result; anything idle longer than the idle TTL is dropped regardless.

package httpserver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/session"
)

// Sweep drops expired games and returns how many went.
func (s *Server) Sweep(ctx context.Context) int {
	now := s.now()
	idle, grace := s.cfg.SessionIdleTTL, s.cfg.FinishedGameGrace
	if idle <= 0 {
		idle = 2 * time.Hour
	}
	if grace <= 0 {
		grace = 15 * time.Minute
	}
	ids := s.store.Prune(ctx, func(sess *session.Session) bool {
		return sess.Expired(now, idle, grace)
	})
	for _, id := range ids {
		log.Info().Str("gameId", id).Msg("game expired")
	}
	return len(ids)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}
