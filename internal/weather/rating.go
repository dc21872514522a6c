package weather

import "math"

// Wave height bands in metres.
const (
	ankleToKneeMin = 0.3
	waistHighMin   = 1.0
	headHighMin    = 2.0
)

// Rating scores forecast points from 1 (poor) to 5 (great) for a beach.
type Rating struct {
	beach Beach
}

// NewRating creates a Rating for the given beach.
func NewRating(beach Beach) *Rating {
	return &Rating{beach: beach}
}

// ForPoint combines wind/wave, swell height and swell period ratings into a
// single rounded score.
func (r *Rating) ForPoint(p ForecastPoint) int {
	wavePosition := PositionFromDegrees(p.SwellDirection)
	windPosition := PositionFromDegrees(p.WindDirection)

	windAndWave := r.WindAndWave(wavePosition, windPosition)
	height := SwellHeightRating(p.SwellHeight)
	period := SwellPeriodRating(p.SwellPeriod)

	return int(math.Round(float64(windAndWave+height+period) / 3))
}

// WindAndWave rates onshore wind 1, offshore wind 5 and cross wind 3.
func (r *Rating) WindAndWave(wave, wind Position) int {
	switch {
	case wave == wind:
		return 1
	case r.isOffshore(wave, wind):
		return 5
	default:
		return 3
	}
}

func (r *Rating) isOffshore(wave, wind Position) bool {
	return wave == r.beach.Position && wind == opposite(wave)
}

// SwellPeriodRating rates a swell period in seconds.
func SwellPeriodRating(period float64) int {
	switch {
	case period >= 14:
		return 5
	case period >= 10:
		return 4
	case period >= 7:
		return 2
	default:
		return 1
	}
}

// SwellHeightRating rates a swell height in metres.
func SwellHeightRating(height float64) int {
	switch {
	case height >= headHighMin:
		return 5
	case height >= waistHighMin:
		return 3
	case height >= ankleToKneeMin:
		return 2
	default:
		return 1
	}
}

// PositionFromDegrees maps a compass bearing to the nearest coarse position.
func PositionFromDegrees(degrees float64) Position {
	switch {
	case degrees < 50:
		return PositionNorth
	case degrees < 120:
		return PositionEast
	case degrees < 220:
		return PositionSouth
	case degrees < 310:
		return PositionWest
	default:
		return PositionNorth
	}
}

func opposite(p Position) Position {
	switch p {
	case PositionNorth:
		return PositionSouth
	case PositionSouth:
		return PositionNorth
	case PositionEast:
		return PositionWest
	case PositionWest:
		return PositionEast
	default:
		return ""
	}
}
