package questionnaire

import (
	"fmt"
	"strings"
	"time"

	"lungscreen/internal/model"
)

const reportSeparator = "=================================================="

var adviceLines = []string{
	"保持健康生活方式，戒烟限酒",
	"避免二手烟和厨房油烟暴露",
	"定期进行健康体检",
	"如出现持续咳嗽、痰中带血等症状请及时就医",
	"高风险人群建议每年进行低剂量螺旋CT筛查",
}

// RenderReport builds the fixed-section screening report text. It never
// fails: missing answers render as 未提供 and unparsable numbers simply
// drop their derived lines.
func RenderReport(answers map[string]string, score model.RiskScore, now time.Time) string {
	var b strings.Builder

	b.WriteString("肺癌早筛风险评估报告\n\n")
	b.WriteString(reportSeparator + "\n\n")

	b.WriteString("【基本信息】\n")
	b.WriteString("姓名：" + answerOr(answers, "name") + "\n")
	b.WriteString("性别：" + answerOr(answers, "gender") + "\n")
	b.WriteString("出生年份：" + answerOr(answers, "birth_year") + "\n")
	writeBodyLine(&b, answers)

	b.WriteString("\n【风险评估】\n")
	if len(score.Factors) == 0 {
		b.WriteString("未发现明显风险因素。\n")
	}
	for _, f := range score.Factors {
		b.WriteString(fmt.Sprintf("⚠️ %s（+%d分）\n", f.Label, f.Points))
	}
	if answers["chest_ct_last_year"] == "否" {
		b.WriteString("📋 建议：近期未进行胸部CT检查，建议根据风险评估结果咨询医生。\n")
	}

	b.WriteString("\n【总体评估】\n")
	switch score.Level {
	case model.RiskHigh:
		b.WriteString(fmt.Sprintf("🔴 高风险（%d分）：强烈建议您立即咨询呼吸科或胸外科医生，并进行低剂量螺旋CT筛查。\n", score.Total))
	case model.RiskMedium:
		b.WriteString(fmt.Sprintf("🟡 中风险（%d分）：建议您定期体检，并与医生讨论是否需要进行肺癌筛查。\n", score.Total))
	default:
		b.WriteString(fmt.Sprintf("🟢 低风险（%d分）：建议您保持健康生活方式，远离烟草，并保持对身体变化的警觉。\n", score.Total))
	}

	b.WriteString("\n【建议措施】\n")
	for i, line := range adviceLines {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
	}

	b.WriteString("\n" + reportSeparator + "\n")
	b.WriteString("报告生成时间：" + now.Format("2006-01-02 15:04:05") + "\n")
	return b.String()
}

// writeBodyLine adds height/weight with BMI when both parse
func writeBodyLine(b *strings.Builder, answers map[string]string) {
	heightRaw, okH := answers["height"]
	weightRaw, okW := answers["weight"]
	if !okH && !okW {
		return
	}
	height, errH := parseNumber(heightRaw)
	weight, errW := parseNumber(weightRaw)
	if errH == nil && errW == nil && height > 0 {
		bmi := weight / ((height / 100) * (height / 100))
		b.WriteString(fmt.Sprintf("身高：%gcm，体重：%gkg，BMI：%.1f\n", height, weight, bmi))
		return
	}
	b.WriteString(fmt.Sprintf("身高：%s，体重：%s\n", orMissing(heightRaw), orMissing(weightRaw)))
}

func answerOr(answers map[string]string, id string) string {
	return orMissing(answers[id])
}

func orMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return "未提供"
	}
	return v
}
