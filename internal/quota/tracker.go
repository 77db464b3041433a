// Package quota tracks how many demo analyses each nickname has consumed.
//
// State lives in memory for the lifetime of the process. Entries are never
// evicted and nothing is persisted; restarting the server resets every quota.
package quota

import (
	"strings"
	"sync"
)

// DefaultMaxTokens is the demo ceiling used when NewTracker is given <= 0.
const DefaultMaxTokens = 10

// Tracker is a mutex-guarded map of nickname to tokens used plus tokens
// reserved by in-flight analyses.
type Tracker struct {
	mu       sync.Mutex
	max      int
	used     map[string]int
	reserved map[string]int
}

// NewTracker returns a Tracker with the given per-nickname ceiling.
func NewTracker(maxTokens int) *Tracker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Tracker{
		max:      maxTokens,
		used:     make(map[string]int),
		reserved: make(map[string]int),
	}
}

// Max returns the per-nickname ceiling.
func (t *Tracker) Max() int { return t.max }

// Register creates an entry for nickname if absent and reports whether it
// already existed, along with the tokens left.
func (t *Tracker) Register(nickname string) (existed bool, remaining int) {
	nickname = normalize(nickname)
	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed = t.used[nickname]
	if !existed {
		t.used[nickname] = 0
	}
	return existed, t.remainingLocked(nickname)
}

// CanAnalyze reports whether nickname still has at least one token,
// counting reservations held by in-flight requests.
func (t *Tracker) CanAnalyze(nickname string) bool {
	nickname = normalize(nickname)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used[nickname]+t.reserved[nickname] < t.max
}

// UseToken consumes one token. It is a no-op returning false once the
// ceiling is reached.
func (t *Tracker) UseToken(nickname string) bool {
	nickname = normalize(nickname)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used[nickname]+t.reserved[nickname] >= t.max {
		return false
	}
	t.used[nickname]++
	return true
}

// Remaining returns the tokens left for nickname, creating the entry when
// it does not exist yet. Reserved tokens are not subtracted.
func (t *Tracker) Remaining(nickname string) int {
	nickname = normalize(nickname)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.used[nickname]; !ok {
		t.used[nickname] = 0
	}
	return t.remainingLocked(nickname)
}

// Reserve holds one token for an in-flight analysis. It returns nil when the
// nickname has no token left. The caller must Commit or Release the result.
func (t *Tracker) Reserve(nickname string) *Reservation {
	nickname = normalize(nickname)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used[nickname]+t.reserved[nickname] >= t.max {
		return nil
	}
	if _, ok := t.used[nickname]; !ok {
		t.used[nickname] = 0
	}
	t.reserved[nickname]++
	return &Reservation{t: t, nickname: nickname}
}

func (t *Tracker) remainingLocked(nickname string) int {
	r := t.max - t.used[nickname]
	if r < 0 {
		return 0
	}
	return r
}

func (t *Tracker) settle(nickname string, consume bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reserved[nickname] > 0 {
		t.reserved[nickname]--
		if t.reserved[nickname] == 0 {
			delete(t.reserved, nickname)
		}
	}
	if consume {
		t.used[nickname]++
	}
	return t.remainingLocked(nickname)
}

// Reservation is a token held by one in-flight analysis.
type Reservation struct {
	t        *Tracker
	nickname string
	once     sync.Once
	left     int
}

// Commit turns the reservation into a used token and returns the tokens
// left afterwards. Calls after the first Commit or Release are no-ops.
func (r *Reservation) Commit() int {
	r.once.Do(func() { r.left = r.t.settle(r.nickname, true) })
	return r.left
}

// Release gives the reserved token back. Safe to defer after Commit.
func (r *Reservation) Release() {
	r.once.Do(func() { r.left = r.t.settle(r.nickname, false) })
}

// Nicknames are matched after trimming surrounding whitespace only.
func normalize(nickname string) string { return strings.TrimSpace(nickname) }
