package leaderboard

// Entry is one user's accumulated standing within a league: the sum of all
// applied fixture scores plus counters for how those points were earned.
type Entry struct {
	LeagueID    int64
	UserID      int64
	Points      int
	Fixtures    int
	ExactScores int
	Results     int
	Rank        int
}
