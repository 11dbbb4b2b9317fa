package engine

type pairKey struct {
	lo, hi int64
}

func makePairKey(a, b int64) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

type h2hEntry struct {
	loWins, hiWins int
}

// H2HTracker tallies meetings per unordered player pair. Results are stored
// against the canonical (min id, max id) key, so lookups are independent of
// argument order.
type H2HTracker struct {
	pairs map[pairKey]h2hEntry
}

func NewH2HTracker() *H2HTracker {
	return &H2HTracker{pairs: make(map[pairKey]h2hEntry)}
}

// Get returns (wins of a, wins of b) relative to the ids passed, (0,0) for a
// pair that has never met. Reading never creates an entry.
func (t *H2HTracker) Get(a, b int64) (int, int) {
	e := t.pairs[makePairKey(a, b)]
	if a < b {
		return e.loWins, e.hiWins
	}
	return e.hiWins, e.loWins
}

// Update credits one win to whichever side of the stored pair won.
func (t *H2HTracker) Update(winnerID, loserID int64) {
	key := makePairKey(winnerID, loserID)
	e := t.pairs[key]
	if winnerID == key.lo {
		e.loWins++
	} else {
		e.hiWins++
	}
	t.pairs[key] = e
}
