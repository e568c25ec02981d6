package model

// QuestionCategory groups questions for validation and scoring
type QuestionCategory string

const (
	CategoryIdentity QuestionCategory = "IDENTITY" // Name, gender, ID numbers
	CategoryNumeric  QuestionCategory = "NUMERIC"  // Years, counts, measurements
	CategoryBinary   QuestionCategory = "BINARY"   // Yes/no, normalized to 是/否
	CategoryText     QuestionCategory = "TEXT"     // Free text details
)

// Dependency gates a question on a previous answer
type Dependency struct {
	QuestionID     string   `json:"questionId"`
	AcceptedValues []string `json:"acceptedValues"`
	AutoFill       string   `json:"autoFill,omitempty"` // Stored for the dependent when unmet, empty means "0"
}

// Question is one catalog entry
type Question struct {
	ID           string           `json:"id"`
	Text         string           `json:"text"`   // What the user is asked
	Prompt       string           `json:"prompt"` // Extra guidance appended on re-ask
	Category     QuestionCategory `json:"category"`
	Topic        string           `json:"topic,omitempty"` // Lexicon topic for BINARY questions
	Required     bool             `json:"required"`
	AllowDecline bool             `json:"allowDecline,omitempty"` // Sensitive fields may be refused
	DependsOn    *Dependency      `json:"dependsOn,omitempty"`
	Min          float64          `json:"min,omitempty"` // NUMERIC range hint
	Max          float64          `json:"max,omitempty"`
}

// HasRange reports whether a numeric range hint is set
func (q *Question) HasRange() bool {
	return q.Category == CategoryNumeric && q.Max > q.Min
}
