package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lungscreen/internal/model"
	"lungscreen/internal/questionnaire"
	"lungscreen/internal/repository"
)

// Seeds one completed demo screening so the reports dashboard has data to
// show on a fresh install.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "lungscreen"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	answers := map[string]string{
		"name":                        "王建国",
		"gender":                      "男",
		"birth_year":                  "1958",
		"height":                      "170",
		"weight":                      "68",
		"smoking_history":             "是",
		"smoking_freq":                "30",
		"smoking_years":               "40",
		"smoking_quit":                "否",
		"smoking_quit_years":          "0",
		"passive_smoking":             "否",
		"passive_smoking_freq":        "0",
		"passive_smoking_years":       "0",
		"kitchen_fumes":               "否",
		"kitchen_fumes_years":         "0",
		"occupation":                  "矿工",
		"occupation_exposure":         "是",
		"occupation_exposure_details": "井下粉尘，二十多年",
		"personal_tumor_history":      "否",
		"personal_tumor_details":      "0",
		"family_cancer_history":       "是",
		"family_cancer_details":       "父亲肺癌",
		"chest_ct_last_year":          "否",
		"chronic_lung_disease":        "是",
		"recent_weight_loss":          "否",
		"recent_symptoms":             "是",
		"recent_symptoms_details":     "咳嗽三个月，偶尔痰中带血",
		"self_feeling":                "最近总觉得胸闷",
	}

	table := questionnaire.WeightsFor(questionnaire.CatalogBasic)
	score := table.Score(answers)
	now := time.Now()

	report := &model.Report{
		SessionID:   "sess_demo001",
		CatalogName: questionnaire.CatalogBasic,
		Score:       score,
		Text:        questionnaire.RenderReport(answers, score, now),
		Answers:     answers,
		CreatedAt:   now,
	}

	repo := repository.NewReportRepo(client.Database(dbName))
	if err := repo.Save(ctx, report); err != nil {
		log.Fatalf("Failed to seed report: %v", err)
	}

	fmt.Printf("Seeded demo report %s (%s, %d 分)\n", report.SessionID, score.Level, score.Total)
}
