package via

import (
	"context"
	"time"
)

// sweepSessions drops stale sessions every interval until ctx is done.
func (v *V) sweepSessions(ctx context.Context, interval time.Duration) {
	if v.cfg.SessionTTL <= 0 {
		return
	}
	tkr := time.NewTicker(interval)
	defer tkr.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tkr.C:
			if n := v.cleanupStaleSessions(now); n > 0 {
				v.logDebug(nil, "removed %d stale sessions", n)
			}
		}
	}
}

// cleanupStaleSessions removes sessions idle for longer than SessionTTL and
// returns how many were removed.
func (v *V) cleanupStaleSessions(now time.Time) int {
	if v.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-time.Duration(v.cfg.SessionTTL) * time.Second)

	v.sessionRegistryMutex.Lock()
	defer v.sessionRegistryMutex.Unlock()
	removed := 0
	for id, sess := range v.sessionRegistry {
		if sess.idleSince(cutoff) {
			delete(v.sessionRegistry, id)
			removed++
		}
	}
	return removed
}
