// Package vote implements the majority-vote aggregation used by the
// team decision mini-games.
package vote

// Ledger maps each voter to their single latest choice. A new vote by
// the same voter overwrites the old one; votes never accumulate.
type Ledger struct {
	votes map[string]string
	// firstSeen records the order a choice first received a vote,
	// used only to break exact count ties deterministically.
	firstSeen map[string]int
	seq       int
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		votes:     make(map[string]string),
		firstSeen: make(map[string]int),
	}
}

// Cast records voter's choice, replacing any prior vote by the same voter
func (l *Ledger) Cast(voter, choice string) {
	l.votes[voter] = choice
	if _, ok := l.firstSeen[choice]; !ok {
		l.firstSeen[choice] = l.seq
	}
	l.seq++
}

// Tally is the derived state of a ledger at one instant
type Tally struct {
	Counts      map[string]int `json:"counts"`
	Leader      string         `json:"leader"`
	LeaderCount int            `json:"leader_count"`
	Total       int            `json:"total"`
	HasMajority bool           `json:"has_majority"`
}

// Tally counts the ledger. HasMajority requires a strict majority
// (count > total/2), so an exact tie never reaches majority. Leader
// breaks count ties by the choice that received its first vote
// earliest; it is informational when HasMajority is false.
func (l *Ledger) Tally() Tally {
	counts := make(map[string]int, len(l.firstSeen))
	for _, choice := range l.votes {
		counts[choice]++
	}

	leader := ""
	leaderCount := 0
	for choice, count := range counts {
		if count > leaderCount ||
			(count == leaderCount && l.firstSeen[choice] < l.firstSeen[leader]) {
			leader = choice
			leaderCount = count
		}
	}

	total := len(l.votes)
	return Tally{
		Counts:      counts,
		Leader:      leader,
		LeaderCount: leaderCount,
		Total:       total,
		HasMajority: leaderCount*2 > total,
	}
}

// Reset clears all votes
func (l *Ledger) Reset() {
	l.votes = make(map[string]string)
	l.firstSeen = make(map[string]int)
	l.seq = 0
}
