package model

import "time"

// DeclinedAnswer is stored when a user refuses a sensitive question
const DeclinedAnswer = "不方便提供"

// Session holds the live state of one screening interview
type Session struct {
	ID           string            `json:"id"`
	CatalogName  string            `json:"catalogName"`
	CurrentIndex int               `json:"currentIndex"`
	Answers      map[string]string `json:"answers"` // Keyed by question ID
	Order        []string          `json:"order"`   // Question IDs in answer order
	Completed    bool              `json:"completed"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// NewSession creates an empty session positioned at the first question
func NewSession(id, catalogName string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		CatalogName: catalogName,
		Answers:     make(map[string]string),
		Order:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetAnswer stores an answer and keeps first-write order for the report
func (s *Session) SetAnswer(questionID, value string) {
	if _, ok := s.Answers[questionID]; !ok {
		s.Order = append(s.Order, questionID)
	}
	s.Answers[questionID] = value
	s.UpdatedAt = time.Now()
}

// ClearAnswer removes a stored answer so the question can be re-asked
func (s *Session) ClearAnswer(questionID string) {
	if _, ok := s.Answers[questionID]; !ok {
		return
	}
	delete(s.Answers, questionID)
	for i, id := range s.Order {
		if id == questionID {
			s.Order = append(s.Order[:i], s.Order[i+1:]...)
			break
		}
	}
	s.UpdatedAt = time.Now()
}

// Reset wipes all answers and rewinds to the first question
func (s *Session) Reset() {
	s.Answers = make(map[string]string)
	s.Order = []string{}
	s.CurrentIndex = 0
	s.Completed = false
	s.UpdatedAt = time.Now()
}
