package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardrift/internal/store"
)

// storeTimeout bounds a persistence write made from the frame path.
const storeTimeout = 250 * time.Millisecond

// scoreKeeper caches the persisted progress and writes through only when
// something changed: a beaten high score or the first unlock.
type scoreKeeper struct {
	ctx      context.Context
	store    store.Store
	log      *log.Logger
	high     int
	unlocked bool
}

// newScoreKeeper reads the persisted progress once. Unreadable or
// malformed values count as zero.
func newScoreKeeper(ctx context.Context, s store.Store, logger *log.Logger) *scoreKeeper {
	k := &scoreKeeper{ctx: ctx, store: s, log: logger}
	p, err := store.Load(ctx, s)
	if err != nil {
		logger.Warn("Could not read saved progress, starting from zero", "err", err)
	}
	if p.HighScore > 0 {
		k.high = p.HighScore
	}
	k.unlocked = p.InfiniteUnlocked
	return k
}

// Submit records points as the new high score if they beat it.
func (k *scoreKeeper) Submit(points int) bool {
	if points <= k.high {
		return false
	}
	k.high = points

	ctx, cancel := context.WithTimeout(k.ctx, storeTimeout)
	defer cancel()
	if err := k.store.WriteHighScore(ctx, points); err != nil {
		k.log.Warn("Could not save high score", "score", points, "err", err)
	}
	return true
}

// Unlock sets the infinite-mode flag once.
func (k *scoreKeeper) Unlock() {
	if k.unlocked {
		return
	}
	k.unlocked = true

	ctx, cancel := context.WithTimeout(k.ctx, storeTimeout)
	defer cancel()
	if err := k.store.WriteInfiniteModeUnlocked(ctx, true); err != nil {
		k.log.Warn("Could not save infinite mode unlock", "err", err)
	}
}
