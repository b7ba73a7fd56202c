package synthesizer

import (
	"math/rand"

	"kpim-service/internal/app/config"
)

// riskProbability computes the adverse-outcome probability for one case:
// the base rate scaled by the hospital's risk multiplier, plus a fixed bump
// when the case falls inside the historical anomaly window, plus symmetric
// jitter. The result is clamped into [0, 1].
func riskProbability(dayIndex int, hospitalFactor float64, cfg config.Synthesizer, rng *rand.Rand) float64 {
	risk := cfg.BaseRate * hospitalFactor
	if dayIndex > cfg.AnomalyStartDay && dayIndex < cfg.AnomalyEndDay {
		risk += cfg.AnomalyBump
	}
	risk += (rng.Float64()*2 - 1) * cfg.NoiseAmplitude

	if risk < 0 {
		return 0
	}
	if risk > 1 {
		return 1
	}
	return risk
}
