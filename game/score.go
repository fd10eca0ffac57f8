package game

// ScoreFor returns the points for clearing rows in a single landing.
func ScoreFor(rows int) int {
	switch {
	case rows <= 0:
		return 0
	case rows == 1:
		return 40
	case rows == 2:
		return 100
	case rows == 3:
		return 300
	default:
		return 1200
	}
}
