package bracket

// PointsForPlacement returns the championship points a stage placement is
// worth. The table is fixed.
func PointsForPlacement(placement int) int {
	switch {
	case placement == 1:
		return 100
	case placement == 2:
		return 88
	case placement == 3:
		return 76
	case placement == 4:
		return 64
	case placement >= 5 && placement <= 8:
		return 48
	case placement >= 9 && placement <= 16:
		return 32
	case placement >= 17 && placement <= 32:
		return 16
	default:
		return 0
	}
}
