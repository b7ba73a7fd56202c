package synthesizer

import (
	"math/rand"
	"testing"

	"kpim-service/internal/app/config"

	"github.com/stretchr/testify/assert"
)

var testSynthConfig = config.Synthesizer{
	WriteChunkSize:  20,
	TotalCases:      300,
	DaysBack:        180,
	BaseRate:        0.015,
	AnomalyStartDay: 60,
	AnomalyEndDay:   90,
	AnomalyBump:     0.08,
	NoiseAmplitude:  0.005,
	DeathSplit:      0.6,
}

func TestRiskProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("Baseline stays near baseRate times factor", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			risk := riskProbability(10, 1.0, testSynthConfig, rng)
			assert.InDelta(t, 0.015, risk, 0.005)
		}
	})

	t.Run("Higher-risk hospital scales the baseline", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			risk := riskProbability(10, 1.2, testSynthConfig, rng)
			assert.InDelta(t, 0.018, risk, 0.005)
		}
	})

	t.Run("Anomaly window adds the bump", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			risk := riskProbability(75, 1.0, testSynthConfig, rng)
			assert.InDelta(t, 0.095, risk, 0.005)
		}
	})

	t.Run("Window bounds are exclusive", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			assert.InDelta(t, 0.015, riskProbability(60, 1.0, testSynthConfig, rng), 0.005)
			assert.InDelta(t, 0.015, riskProbability(90, 1.0, testSynthConfig, rng), 0.005)
			assert.InDelta(t, 0.095, riskProbability(61, 1.0, testSynthConfig, rng), 0.005)
			assert.InDelta(t, 0.095, riskProbability(89, 1.0, testSynthConfig, rng), 0.005)
		}
	})

	t.Run("Result never leaves the unit interval", func(t *testing.T) {
		extreme := testSynthConfig
		extreme.BaseRate = 2.0
		assert.Equal(t, 1.0, riskProbability(10, 1.0, extreme, rng))

		negative := testSynthConfig
		negative.BaseRate = -1.0
		assert.Equal(t, 0.0, riskProbability(10, 1.0, negative, rng))
	})
}
