package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"lungscreen/internal/cache"
	"lungscreen/internal/model"
	"lungscreen/internal/questionnaire"
	"lungscreen/internal/repository"
)

// ReportService scores a finished interview, renders the report and fans it
// out to Mongo, the stats cache and the exports directory. Rendering never
// fails; persistence failures are logged and swallowed so the user always
// receives their report.
type ReportService struct {
	repo       repository.ReportRepo
	stats      cache.StatsCache
	reportsDir string
}

// NewReportService creates a new report service
func NewReportService(repo repository.ReportRepo, stats cache.StatsCache, reportsDir string) *ReportService {
	return &ReportService{repo: repo, stats: stats, reportsDir: reportsDir}
}

// Finalize produces the report for a completed session
func (s *ReportService) Finalize(ctx context.Context, sess *model.Session) *model.Report {
	table := questionnaire.WeightsFor(sess.CatalogName)
	score := table.Score(sess.Answers)
	now := time.Now()

	report := &model.Report{
		SessionID:   sess.ID,
		CatalogName: sess.CatalogName,
		Score:       score,
		Text:        questionnaire.RenderReport(sess.Answers, score, now),
		Answers:     sess.Answers,
		CreatedAt:   now,
	}

	if err := s.repo.Save(ctx, report); err != nil {
		log.Printf("Failed to persist report for session %s: %v", sess.ID, err)
	}
	if err := s.stats.IncrementRiskLevel(ctx, score.Level); err != nil {
		log.Printf("Failed to update risk stats for session %s: %v", sess.ID, err)
	}
	s.export(report)

	return report
}

// Get returns the persisted report for a session
func (s *ReportService) Get(ctx context.Context, sessionID string) (*model.Report, error) {
	return s.repo.GetBySessionID(ctx, sessionID)
}

// List returns the most recent reports
func (s *ReportService) List(ctx context.Context, limit int64) ([]*model.Report, error) {
	return s.repo.List(ctx, limit)
}

// export writes the txt and json copies used by the clinic intake desk
func (s *ReportService) export(report *model.Report) {
	if s.reportsDir == "" {
		return
	}
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		log.Printf("Failed to create reports dir: %v", err)
		return
	}

	stamp := report.CreatedAt.Format("20060102_150405")
	base := fmt.Sprintf("report_%s_%s", report.SessionID, stamp)

	txtPath := filepath.Join(s.reportsDir, base+".txt")
	if err := os.WriteFile(txtPath, []byte(report.Text), 0o644); err != nil {
		log.Printf("Failed to export report text: %v", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("Failed to encode report json: %v", err)
		return
	}
	jsonPath := filepath.Join(s.reportsDir, base+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		log.Printf("Failed to export report json: %v", err)
	}
}
