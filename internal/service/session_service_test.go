package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lungscreen/internal/cache"
	"lungscreen/internal/model"
	"lungscreen/internal/questionnaire"
)

// MockReportRepo is a mock type for the repository.ReportRepo interface
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Save(_ context.Context, report *model.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepo) GetBySessionID(_ context.Context, sessionID string) (*model.Report, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepo) List(_ context.Context, limit int64) ([]*model.Report, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Report), args.Error(1)
}

func newTestService(t *testing.T) (*SessionService, cache.SessionStore, *MockReportRepo) {
	t.Helper()
	store := cache.NewMemorySessionStore()
	repo := new(MockReportRepo)
	reports := NewReportService(repo, cache.NewMemoryStatsCache(), t.TempDir())
	return NewSessionService(store, NewAuthService(), reports), store, repo
}

func TestSessionService_Start(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Start(ctx, "basic")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Question)
	assert.Equal(t, "name", resp.Question.ID)
	assert.Equal(t, "0/28", resp.Progress)

	sess, err := store.Get(ctx, resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Zero(t, sess.CurrentIndex)

	_, err = svc.Start(ctx, "deluxe")
	assert.Error(t, err)
}

func TestSessionService_Reply_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	start, err := svc.Start(ctx, "basic")
	require.NoError(t, err)

	t.Run("non-answer re-asks without advancing", func(t *testing.T) {
		resp, err := svc.Reply(ctx, start.SessionID, "不知道")
		require.NoError(t, err)
		require.NotNil(t, resp.Question)
		assert.Equal(t, "name", resp.Question.ID)
		assert.NotEmpty(t, resp.Question.Guidance)
		assert.Equal(t, "0/28", resp.Progress)
	})

	t.Run("valid answer advances", func(t *testing.T) {
		resp, err := svc.Reply(ctx, start.SessionID, "张伟")
		require.NoError(t, err)
		assert.Equal(t, "gender", resp.Question.ID)
		assert.Equal(t, "1/28", resp.Progress)

		sess, _ := store.Get(ctx, start.SessionID)
		assert.Equal(t, "张伟", sess.Answers["name"])
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Reply(ctx, "sess_nope", "你好")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_Reply_GoToIndex(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// Session parked on question 8 with the first questions answered
	sess := model.NewSession("sess_nav", "basic")
	for _, answer := range []struct{ id, value string }{
		{"name", "张伟"}, {"gender", "男"}, {"birth_year", "1962"},
		{"height", "172"}, {"weight", "65"}, {"smoking_history", "是"},
		{"smoking_freq", "20"},
	} {
		sess.SetAnswer(answer.id, answer.value)
	}
	sess.CurrentIndex = 7
	require.NoError(t, store.Put(ctx, sess))

	resp, err := svc.Reply(ctx, "sess_nav", "我想回到第3题")
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, 2, resp.Question.Index)
	assert.Equal(t, "birth_year", resp.Question.ID)

	stored, err := store.Get(ctx, "sess_nav")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentIndex)
	assert.NotContains(t, stored.Answers, "birth_year")
	assert.Equal(t, "张伟", stored.Answers["name"])
}

func TestSessionService_Reply_Restart(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	sess := model.NewSession("sess_restart", "basic")
	sess.SetAnswer("name", "张伟")
	sess.SetAnswer("gender", "男")
	sess.CurrentIndex = 2
	require.NoError(t, store.Put(ctx, sess))

	resp, err := svc.Reply(ctx, "sess_restart", "重新开始")
	require.NoError(t, err)
	assert.Equal(t, "name", resp.Question.ID)
	assert.Equal(t, "0/28", resp.Progress)

	stored, _ := store.Get(ctx, "sess_restart")
	assert.Empty(t, stored.Answers)
	assert.Zero(t, stored.CurrentIndex)
}

func TestSessionService_Reply_Skip(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	t.Run("skip on a declinable question records the sentinel", func(t *testing.T) {
		sess := model.NewSession("sess_skip1", "enhanced")
		sess.SetAnswer("name", "张伟")
		sess.SetAnswer("gender", "男")
		sess.SetAnswer("birth_year", "1962")
		sess.CurrentIndex = 3 // id_card
		require.NoError(t, store.Put(ctx, sess))

		resp, err := svc.Reply(ctx, "sess_skip1", "跳过")
		require.NoError(t, err)
		assert.Equal(t, "med_card", resp.Question.ID)

		stored, _ := store.Get(ctx, "sess_skip1")
		assert.Equal(t, model.DeclinedAnswer, stored.Answers["id_card"])
	})

	t.Run("skip on a required question records nothing", func(t *testing.T) {
		sess := model.NewSession("sess_skip2", "basic")
		sess.CurrentIndex = 0
		require.NoError(t, store.Put(ctx, sess))

		resp, err := svc.Reply(ctx, "sess_skip2", "跳过")
		require.NoError(t, err)
		assert.Equal(t, "gender", resp.Question.ID)

		stored, _ := store.Get(ctx, "sess_skip2")
		assert.NotContains(t, stored.Answers, "name")
	})
}

func TestSessionService_FullWalkthrough(t *testing.T) {
	svc, store, repo := newTestService(t)
	ctx := context.Background()

	repo.On("Save", mock.AnythingOfType("*model.Report")).Return(nil).Once()

	start, err := svc.Start(ctx, "basic")
	require.NoError(t, err)

	turns := []string{
		"张伟",      // name
		"男",       // gender
		"1962",    // birth_year
		"172",     // height
		"65公斤",    // weight
		"有的，抽了很多年", // smoking_history -> 是
		"每天20支",   // smoking_freq -> 20
		"抽了20年",   // smoking_years -> 20
		"还没戒掉",    // smoking_quit -> 否 (skips quit years)
		"不会，很少接触",     // passive_smoking -> 否 (skips freq/years)
		"很少做饭",        // kitchen_fumes -> 否 (skips years)
		"退休教师",        // occupation
		"没接触过这些",      // occupation_exposure -> 否 (skips details)
		"没得过",         // personal_tumor_history -> 否 (skips details)
		"没有",          // family_cancer_history -> 否 (skips details)
		"做过一次",        // chest_ct_last_year -> 是
		"没有",          // chronic_lung_disease -> 否
		"没有",          // recent_weight_loss -> 否
		"没出现过",        // recent_symptoms -> 否 (skips details)
		"感觉还不错",       // self_feeling
	}

	var last *ReplyResponse
	for _, text := range turns {
		last, err = svc.Reply(ctx, start.SessionID, text)
		require.NoError(t, err, text)
	}

	require.NotNil(t, last)
	assert.True(t, last.Done)
	assert.Equal(t, "28/28", last.Progress)
	assert.Equal(t, string(model.RiskLow), last.RiskLevel)
	assert.Contains(t, last.ReportText, "张伟")
	assert.Contains(t, last.ReportText, "吸烟指数 20.0 包年")
	repo.AssertExpectations(t)

	sess, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.True(t, sess.Completed)
	assert.Equal(t, "20", sess.Answers["smoking_freq"])
	assert.Equal(t, "0", sess.Answers["smoking_quit_years"])

	_, err = svc.Reply(ctx, start.SessionID, "你好")
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

// stubAssistant classifies every ambiguous answer as a fixed intent
type stubAssistant struct {
	kind questionnaire.IntentKind
}

func (a *stubAssistant) ClassifyIntent(_ context.Context, _, _ string) questionnaire.IntentKind {
	return a.kind
}

func (a *stubAssistant) RephraseQuestion(_ context.Context, q *model.Question) string {
	return q.Prompt
}

func TestSessionService_AmbiguousFallsBackToAssistant(t *testing.T) {
	svc, store, _ := newTestService(t)
	svc.SetAssistant(&stubAssistant{kind: questionnaire.IntentGoToPrevious})
	ctx := context.Background()

	sess := model.NewSession("sess_llm", "basic")
	sess.SetAnswer("name", "张伟")
	sess.SetAnswer("gender", "男")
	sess.SetAnswer("birth_year", "1962")
	sess.SetAnswer("height", "172")
	sess.SetAnswer("weight", "65")
	sess.CurrentIndex = 5 // smoking_history, binary
	require.NoError(t, store.Put(ctx, sess))

	// Unclassifiable for the lexicons, so the assistant decides
	resp, err := svc.Reply(ctx, "sess_llm", "换个说法再问我前面那个吧")
	require.NoError(t, err)
	require.NotNil(t, resp.Question)
	assert.Equal(t, 4, resp.Question.Index)

	stored, _ := store.Get(ctx, "sess_llm")
	assert.NotContains(t, stored.Answers, "weight")
}
