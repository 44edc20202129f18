package scoring

// Outcome classifies one prediction against the actual final score.
type Outcome string

const (
	OutcomeExact  Outcome = "EXACT"
	OutcomeResult Outcome = "RESULT"
	OutcomeMiss   Outcome = "MISS"
)

const (
	PointsExact  = 3
	PointsResult = 1
	PointsMiss   = 0
)

// Classify compares a predicted score to the actual one. Exact means both
// goals match; Result means the win/draw/loss direction matches but the
// score differs; anything else is a Miss.
func Classify(actualHome, actualAway, predictedHome, predictedAway int) Outcome {
	if actualHome == predictedHome && actualAway == predictedAway {
		return OutcomeExact
	}

	actualDiff := actualHome - actualAway
	predictedDiff := predictedHome - predictedAway
	switch {
	case actualDiff == 0 && predictedDiff == 0:
		return OutcomeResult
	case actualDiff > 0 && predictedDiff > 0:
		return OutcomeResult
	case actualDiff < 0 && predictedDiff < 0:
		return OutcomeResult
	default:
		return OutcomeMiss
	}
}

func (o Outcome) Points() int {
	switch o {
	case OutcomeExact:
		return PointsExact
	case OutcomeResult:
		return PointsResult
	default:
		return PointsMiss
	}
}

// FixtureScore is one user's point award for one finished fixture. It is
// derived data: recomputing it for the same fixture always yields the same
// rows.
type FixtureScore struct {
	LeagueID  int64
	FixtureID int64
	UserID    int64
	Points    int
	Outcome   Outcome
}
