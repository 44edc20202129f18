package team

// Team belongs to one league for the configured season.
type Team struct {
	ID       int64
	LeagueID int64
	Name     string
	Short    string
}
