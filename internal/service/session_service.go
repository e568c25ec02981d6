package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"lungscreen/internal/cache"
	"lungscreen/internal/model"
	"lungscreen/internal/questionnaire"
)

var (
	ErrSessionNotFound  = errors.New("session not found or expired")
	ErrSessionCompleted = errors.New("session already completed")
)

// QuestionPayload is what the client renders for one ask
type QuestionPayload struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Text     string `json:"text"`
	Prompt   string `json:"prompt"`
	Guidance string `json:"guidance,omitempty"` // Set on re-asks
	AudioURL string `json:"audioUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// StartResponse is returned when an interview begins
type StartResponse struct {
	SessionID string           `json:"sessionId"`
	Token     string           `json:"token"`
	Question  *QuestionPayload `json:"question"`
	Progress  string           `json:"progress"`
}

// ReplyResponse is returned for every user turn
type ReplyResponse struct {
	Done       bool             `json:"done"`
	Question   *QuestionPayload `json:"question,omitempty"`
	Progress   string           `json:"progress"`
	ReportText string           `json:"reportText,omitempty"`
	RiskLevel  string           `json:"riskLevel,omitempty"`
}

// SessionService orchestrates one interview turn at a time. Every decision
// is delegated to the questionnaire engine; this service only sequences
// store reads, engine calls and collaborator side effects.
type SessionService struct {
	store   cache.SessionStore
	auth    *AuthService
	reports *ReportService

	assistant   LLMAssistant
	speech      Synthesizer
	avatar      VideoSynthesizer
	broadcaster Notifier
}

// NewSessionService creates a new session service
func NewSessionService(store cache.SessionStore, auth *AuthService, reports *ReportService) *SessionService {
	return &SessionService{store: store, auth: auth, reports: reports}
}

// SetAssistant wires the optional LLM fallback
func (s *SessionService) SetAssistant(a LLMAssistant) { s.assistant = a }

// SetSpeech wires the optional TTS collaborator
func (s *SessionService) SetSpeech(sp Synthesizer) { s.speech = sp }

// SetAvatar wires the optional digital-human collaborator
func (s *SessionService) SetAvatar(av VideoSynthesizer) { s.avatar = av }

// SetBroadcaster wires the websocket notifier
func (s *SessionService) SetBroadcaster(b Notifier) { s.broadcaster = b }

// Start opens a new interview on the named catalog variant
func (s *SessionService) Start(ctx context.Context, catalogName string) (*StartResponse, error) {
	cat, err := questionnaire.Load(catalogName)
	if err != nil {
		return nil, err
	}

	sess := model.NewSession("sess_"+uuid.New().String()[:8], cat.Name())
	sess.CurrentIndex = questionnaire.FirstIndex(cat, sess)

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.auth.IssueSessionToken(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Printf("Session %s started on catalog %s", sess.ID, cat.Name())
	return &StartResponse{
		SessionID: sess.ID,
		Token:     token,
		Question:  s.questionPayload(ctx, cat, sess.CurrentIndex, ""),
		Progress:  s.progress(cat, sess),
	}, nil
}

// Reply processes one user turn: navigation intent first, then validation,
// then flow advancement. A finished catalog finalizes the report.
func (s *SessionService) Reply(ctx context.Context, sessionID, text string) (*ReplyResponse, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Completed {
		return nil, ErrSessionCompleted
	}

	cat, err := questionnaire.Load(sess.CatalogName)
	if err != nil {
		return nil, err
	}

	intent := questionnaire.DetectIntent(text, sess.CurrentIndex, cat.Len())
	if intent.Kind != questionnaire.IntentNone {
		return s.applyIntent(ctx, cat, sess, intent)
	}

	current := cat.At(sess.CurrentIndex)
	if current == nil {
		return nil, fmt.Errorf("session %s: current index %d out of range", sess.ID, sess.CurrentIndex)
	}

	result := questionnaire.Validate(current, text)
	if !result.Verdict.Accepted() {
		// Ambiguous answers get one shot at the LLM before a re-ask, in
		// case a navigation request slipped past the regex detector.
		if result.Verdict == questionnaire.VerdictAmbiguous && s.assistant != nil {
			if kind := s.assistant.ClassifyIntent(ctx, current.Text, text); kind != questionnaire.IntentNone {
				return s.applyIntent(ctx, cat, sess, questionnaire.Intent{
					Kind:        kind,
					TargetIndex: max(0, sess.CurrentIndex-1),
				})
			}
		}
		return &ReplyResponse{
			Question: s.questionPayload(ctx, cat, sess.CurrentIndex, result.Guidance),
			Progress: s.progress(cat, sess),
		}, nil
	}

	sess.SetAnswer(current.ID, result.Value)
	return s.advance(ctx, cat, sess, sess.CurrentIndex)
}

// GetProgress returns a progress snapshot without changing any state
func (s *SessionService) GetProgress(ctx context.Context, sessionID string) (*ReplyResponse, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	cat, err := questionnaire.Load(sess.CatalogName)
	if err != nil {
		return nil, err
	}

	resp := &ReplyResponse{
		Done:     sess.Completed,
		Progress: s.progress(cat, sess),
	}
	if !sess.Completed {
		resp.Question = s.questionPayload(ctx, cat, sess.CurrentIndex, "")
	}
	return resp, nil
}

// applyIntent executes a navigation command and re-asks the right question
func (s *SessionService) applyIntent(ctx context.Context, cat *questionnaire.Catalog, sess *model.Session, intent questionnaire.Intent) (*ReplyResponse, error) {
	switch intent.Kind {
	case questionnaire.IntentGoToIndex, questionnaire.IntentGoToPrevious:
		target := cat.At(intent.TargetIndex)
		if target == nil {
			return nil, fmt.Errorf("session %s: intent target %d out of range", sess.ID, intent.TargetIndex)
		}
		sess.ClearAnswer(target.ID)
		sess.CurrentIndex = intent.TargetIndex

	case questionnaire.IntentRestart:
		sess.Reset()
		sess.CurrentIndex = questionnaire.FirstIndex(cat, sess)

	case questionnaire.IntentSkip:
		if current := cat.At(sess.CurrentIndex); current != nil && current.AllowDecline {
			sess.SetAnswer(current.ID, model.DeclinedAnswer)
		}
		return s.advance(ctx, cat, sess, sess.CurrentIndex)

	default:
		return nil, fmt.Errorf("session %s: unhandled intent %s", sess.ID, intent.Kind)
	}

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	payload := s.questionPayload(ctx, cat, sess.CurrentIndex, "")
	s.notify(sess.ID, "next_question", payload)
	return &ReplyResponse{
		Question: payload,
		Progress: s.progress(cat, sess),
	}, nil
}

// advance moves past from, finalizing the interview when the catalog is
// exhausted
func (s *SessionService) advance(ctx context.Context, cat *questionnaire.Catalog, sess *model.Session, from int) (*ReplyResponse, error) {
	next := questionnaire.NextIndex(cat, sess, from)
	if next == -1 {
		return s.finalize(ctx, cat, sess)
	}

	sess.CurrentIndex = next
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	payload := s.questionPayload(ctx, cat, next, "")
	progress := s.progress(cat, sess)
	s.notify(sess.ID, "next_question", payload)
	s.notify(sess.ID, "progress_update", map[string]string{"progress": progress})
	return &ReplyResponse{
		Question: payload,
		Progress: progress,
	}, nil
}

func (s *SessionService) finalize(ctx context.Context, cat *questionnaire.Catalog, sess *model.Session) (*ReplyResponse, error) {
	report := s.reports.Finalize(ctx, sess)

	sess.Completed = true
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	log.Printf("Session %s completed with risk level %s", sess.ID, report.Score.Level)
	s.notify(sess.ID, "report_ready", map[string]string{
		"riskLevel": string(report.Score.Level),
	})
	return &ReplyResponse{
		Done:       true,
		Progress:   s.progress(cat, sess),
		ReportText: report.Text,
		RiskLevel:  string(report.Score.Level),
	}, nil
}

// questionPayload builds the ask for one index, enriched by the optional
// collaborators. Collaborator failures degrade to a plain text ask.
func (s *SessionService) questionPayload(ctx context.Context, cat *questionnaire.Catalog, index int, guidance string) *QuestionPayload {
	q := cat.At(index)
	if q == nil {
		return nil
	}

	prompt := q.Prompt
	if s.assistant != nil {
		prompt = s.assistant.RephraseQuestion(ctx, q)
	}

	payload := &QuestionPayload{
		Index:    index,
		ID:       q.ID,
		Text:     q.Text,
		Prompt:   prompt,
		Guidance: guidance,
	}

	spoken := prompt
	if guidance != "" {
		spoken = guidance + prompt
	}
	if s.speech != nil {
		url, err := s.speech.Synthesize(ctx, spoken)
		if err != nil {
			log.Printf("Speech synthesis failed: %v", err)
		} else {
			payload.AudioURL = url
		}
	}
	if s.avatar != nil {
		url, err := s.avatar.SynthesizeVideo(ctx, spoken)
		if err != nil {
			log.Printf("Avatar synthesis failed: %v", err)
		} else {
			payload.VideoURL = url
		}
	}
	return payload
}

func (s *SessionService) progress(cat *questionnaire.Catalog, sess *model.Session) string {
	answered, total := questionnaire.Progress(cat, sess)
	return fmt.Sprintf("%d/%d", answered, total)
}

func (s *SessionService) notify(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.NotifySession(sessionID, msgType, payload)
	}
}
