package model

import "time"

// RiskLevel is the overall screening bucket
type RiskLevel string

const (
	RiskHigh   RiskLevel = "高风险"
	RiskMedium RiskLevel = "中风险"
	RiskLow    RiskLevel = "低风险"
)

// RiskFactor is one scored contribution with its weight
type RiskFactor struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Label      string `json:"label" bson:"label"`
	Points     int    `json:"points" bson:"points"`
}

// RiskScore is the scorer output
type RiskScore struct {
	Total     int          `json:"total" bson:"total"`
	Level     RiskLevel    `json:"level" bson:"level"`
	Factors   []RiskFactor `json:"factors" bson:"factors"`
	PackYears float64      `json:"packYears" bson:"packYears"`
}

// Report is the persisted screening result
type Report struct {
	SessionID   string            `json:"sessionId" bson:"sessionId"`
	CatalogName string            `json:"catalogName" bson:"catalogName"`
	Score       RiskScore         `json:"score" bson:"score"`
	Text        string            `json:"text" bson:"text"`
	Answers     map[string]string `json:"answers" bson:"answers"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
}
