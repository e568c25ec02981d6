package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lungscreen/internal/model"
)

func TestScore_SmokingBands(t *testing.T) {
	table := DefaultWeights()

	t.Run("twenty pack-years lands in the middle band", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history": "是",
			"smoking_years":   "20",
			"smoking_freq":    "20",
		})
		assert.Equal(t, 2, score.Total)
		assert.Equal(t, model.RiskLow, score.Level)
		assert.InDelta(t, 20.0, score.PackYears, 0.001)
		require.Len(t, score.Factors, 1)
		assert.Equal(t, "smoking_history", score.Factors[0].QuestionID)
		assert.Equal(t, 2, score.Factors[0].Points)
	})

	t.Run("heavy smoker hits the top band", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history": "是",
			"smoking_years":   "40",
			"smoking_freq":    "30",
		})
		assert.Equal(t, 3, score.Total)
	})

	t.Run("light smoker gets the floor band", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history": "是",
			"smoking_years":   "5",
			"smoking_freq":    "3",
		})
		assert.Equal(t, 1, score.Total)
	})

	t.Run("unparsable numbers use the fallback weight", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history": "是",
			"smoking_years":   "很多年",
			"smoking_freq":    "20",
		})
		assert.Equal(t, 2, score.Total)
		assert.Zero(t, score.PackYears)
	})

	t.Run("non-smoker scores nothing for smoking", func(t *testing.T) {
		score := table.Score(map[string]string{"smoking_history": "否"})
		assert.Zero(t, score.Total)
		assert.Empty(t, score.Factors)
	})
}

func TestScore_Buckets(t *testing.T) {
	table := DefaultWeights()

	t.Run("all factors stack into high risk", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history":       "是",
			"smoking_years":         "40",
			"smoking_freq":          "30",
			"passive_smoking":       "是",
			"occupation_exposure":   "是",
			"family_cancer_history": "是",
			"recent_symptoms":       "是",
		})
		assert.Equal(t, 11, score.Total)
		assert.Equal(t, model.RiskHigh, score.Level)
		assert.Len(t, score.Factors, 5)
	})

	t.Run("exactly six is high", func(t *testing.T) {
		score := table.Score(map[string]string{
			"smoking_history":     "是",
			"smoking_years":       "40",
			"smoking_freq":        "30",
			"recent_symptoms":     "是",
		})
		assert.Equal(t, 6, score.Total)
		assert.Equal(t, model.RiskHigh, score.Level)
	})

	t.Run("exactly three is medium", func(t *testing.T) {
		score := table.Score(map[string]string{"recent_symptoms": "是"})
		assert.Equal(t, 3, score.Total)
		assert.Equal(t, model.RiskMedium, score.Level)
	})

	t.Run("empty answers are low risk", func(t *testing.T) {
		score := table.Score(map[string]string{})
		assert.Zero(t, score.Total)
		assert.Equal(t, model.RiskLow, score.Level)
	})
}

func TestScore_Deterministic(t *testing.T) {
	answers := map[string]string{
		"smoking_history": "是",
		"smoking_years":   "25",
		"smoking_freq":    "15",
		"passive_smoking": "是",
	}
	table := DefaultWeights()
	first := table.Score(answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Score(answers))
	}
}

func TestEnhancedWeights(t *testing.T) {
	score := EnhancedWeights().Score(map[string]string{
		"personal_tumor_history": "是",
		"chronic_lung_disease":   "是",
		"recent_weight_loss":     "是",
	})
	assert.Equal(t, 6, score.Total)
	assert.Equal(t, model.RiskHigh, score.Level)

	// The default table ignores the enhanced-only factors
	assert.Zero(t, DefaultWeights().Score(map[string]string{"personal_tumor_history": "是"}).Total)
}

func TestWeightsFor(t *testing.T) {
	assert.Len(t, WeightsFor(CatalogBasic).Factors, 4)
	assert.Len(t, WeightsFor(CatalogEnhanced).Factors, 7)
}
