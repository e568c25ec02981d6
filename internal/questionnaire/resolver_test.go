package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lungscreen/internal/model"
)

func TestNextIndex_DependencySkip(t *testing.T) {
	cat, err := Load(CatalogBasic)
	require.NoError(t, err)

	t.Run("non-smoker skips the smoking block with auto-fill", func(t *testing.T) {
		sess := model.NewSession("s1", CatalogBasic)
		sess.SetAnswer("smoking_history", "否")

		_, smokingIdx, ok := cat.ByID("smoking_history")
		require.True(t, ok)

		next := NextIndex(cat, sess, smokingIdx)

		_, passiveIdx, _ := cat.ByID("passive_smoking")
		assert.Equal(t, passiveIdx, next)
		assert.Equal(t, "0", sess.Answers["smoking_freq"])
		assert.Equal(t, "0", sess.Answers["smoking_years"])
		assert.Equal(t, "0", sess.Answers["smoking_quit"])
		assert.Equal(t, "0", sess.Answers["smoking_quit_years"])
	})

	t.Run("smoker is asked the smoking block", func(t *testing.T) {
		sess := model.NewSession("s2", CatalogBasic)
		sess.SetAnswer("smoking_history", "是")

		_, smokingIdx, _ := cat.ByID("smoking_history")
		next := NextIndex(cat, sess, smokingIdx)

		_, freqIdx, _ := cat.ByID("smoking_freq")
		assert.Equal(t, freqIdx, next)
		assert.NotContains(t, sess.Answers, "smoking_freq")
	})

	t.Run("missing gating answer counts as unmet", func(t *testing.T) {
		sess := model.NewSession("s3", CatalogBasic)

		_, smokingIdx, _ := cat.ByID("smoking_history")
		next := NextIndex(cat, sess, smokingIdx)

		_, passiveIdx, _ := cat.ByID("passive_smoking")
		assert.Equal(t, passiveIdx, next)
		assert.Equal(t, "0", sess.Answers["smoking_freq"])
	})

	t.Run("auto-fill never overwrites an existing answer", func(t *testing.T) {
		sess := model.NewSession("s4", CatalogBasic)
		sess.SetAnswer("smoking_history", "否")
		sess.SetAnswer("smoking_years", "15")

		_, smokingIdx, _ := cat.ByID("smoking_history")
		NextIndex(cat, sess, smokingIdx)

		assert.Equal(t, "15", sess.Answers["smoking_years"])
	})
}

func TestNextIndex_Termination(t *testing.T) {
	cat, err := Load(CatalogBasic)
	require.NoError(t, err)

	// With no answers at all, repeatedly advancing must finish within
	// one pass over the catalog.
	sess := model.NewSession("s1", CatalogBasic)
	idx := FirstIndex(cat, sess)
	steps := 0
	for idx != -1 {
		steps++
		require.LessOrEqual(t, steps, cat.Len())
		idx = NextIndex(cat, sess, idx)
	}
	assert.LessOrEqual(t, steps, cat.Len())
}

func TestNextIndex_Deterministic(t *testing.T) {
	cat, err := Load(CatalogBasic)
	require.NoError(t, err)

	run := func() []int {
		sess := model.NewSession("s1", CatalogBasic)
		sess.SetAnswer("smoking_history", "是")
		sess.SetAnswer("passive_smoking", "否")
		var path []int
		for idx := FirstIndex(cat, sess); idx != -1; idx = NextIndex(cat, sess, idx) {
			path = append(path, idx)
		}
		return path
	}

	assert.Equal(t, run(), run())
}

func TestDependencyMet(t *testing.T) {
	d := &model.Dependency{QuestionID: "smoking_history", AcceptedValues: []string{"是", "有"}}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"standardized yes", "是", true},
		{"standardized no", "否", false},
		{"raw affirmation", "有吸烟习惯", true},
		{"negated text never matches by substring", "没有吸烟", false},
		{"unrelated text", "偶尔喝酒", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := model.NewSession("s", CatalogBasic)
			sess.SetAnswer("smoking_history", tt.answer)
			assert.Equal(t, tt.want, DependencyMet(sess, d))
		})
	}

	t.Run("missing answer is unmet", func(t *testing.T) {
		sess := model.NewSession("s", CatalogBasic)
		assert.False(t, DependencyMet(sess, d))
	})
}

func TestProgress(t *testing.T) {
	cat, err := Load(CatalogBasic)
	require.NoError(t, err)

	sess := model.NewSession("s", CatalogBasic)
	answered, total := Progress(cat, sess)
	assert.Equal(t, 0, answered)
	assert.Equal(t, cat.Len(), total)

	sess.SetAnswer("name", "张伟")
	sess.SetAnswer("gender", "男")
	answered, _ = Progress(cat, sess)
	assert.Equal(t, 2, answered)
}
