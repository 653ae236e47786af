package discovery

// Score is the air-quality decoration attached to a discovered alternative.
type Score struct {
	AqiScore              int    `json:"aqiScore"`
	PollutionReductionPct *int   `json:"pollutionReductionPct,omitempty"`
	ExposureWarning       string `json:"exposureWarning,omitempty"`
}

// Scorer assigns an air-quality score to a route alternative. Implementations
// see the alternative's rank within the result set and its geometry, so a
// real pollution model can be swapped in without touching discovery or
// persistence code.
type Scorer interface {
	Score(rank int, route Route) Score
}

// RankScorer is demonstration-only scoring keyed purely by alternative rank.
// The numbers are illustrative defaults, not an air-quality model.
type RankScorer struct{}

func (RankScorer) Score(rank int, _ Route) Score {
	switch rank {
	case 0:
		pct := 34
		return Score{AqiScore: 92, PollutionReductionPct: &pct}
	case 1:
		return Score{AqiScore: 74}
	default:
		return Score{AqiScore: 42, ExposureWarning: "High PM2.5 Exposure Zone"}
	}
}
