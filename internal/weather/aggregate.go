package weather

import "sort"

// EnrichPoints attaches beach data and a rating to each point, preserving order.
func EnrichPoints(beach Beach, points []ForecastPoint) []BeachForecast {
	rating := NewRating(beach)
	enriched := make([]BeachForecast, 0, len(points))
	for _, p := range points {
		enriched = append(enriched, BeachForecast{
			ForecastPoint: p,
			BeachID:       beach.ID,
			Name:          beach.Name,
			Lat:           beach.Lat,
			Lng:           beach.Lng,
			Position:      beach.Position,
			Rating:        rating.ForPoint(p),
		})
	}
	return enriched
}

// GroupByTime groups beach forecasts by hour. Groups appear in the order their
// time is first seen; within a group, forecasts are ordered by rating, best
// first, keeping input order for equal ratings.
func GroupByTime(forecasts []BeachForecast) []TimeForecast {
	grouped := make([]TimeForecast, 0)
	index := make(map[string]int)

	for _, f := range forecasts {
		i, ok := index[f.Time]
		if !ok {
			i = len(grouped)
			index[f.Time] = i
			grouped = append(grouped, TimeForecast{Time: f.Time})
		}
		grouped[i].Forecast = append(grouped[i].Forecast, f)
	}

	for i := range grouped {
		fc := grouped[i].Forecast
		sort.SliceStable(fc, func(a, b int) bool {
			return fc[a].Rating > fc[b].Rating
		})
	}

	return grouped
}
