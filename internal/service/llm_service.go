package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"lungscreen/internal/config"
	"lungscreen/internal/model"
	"lungscreen/internal/questionnaire"
)

// LLMAssistant is the fallback seam for answers the rule-based layers
// cannot settle. Implementations must degrade, never block the flow.
type LLMAssistant interface {
	ClassifyIntent(ctx context.Context, questionText, answer string) questionnaire.IntentKind
	RephraseQuestion(ctx context.Context, q *model.Question) string
}

// LLMService talks to an OpenAI-compatible chat endpoint. Any error falls
// back to a deterministic result so the interview keeps moving.
type LLMService struct {
	cfg    *config.AIConfig
	client *openai.Client
}

// NewLLMService creates an LLM service from the AI config. When no API key
// is configured every call short-circuits to its fallback.
func NewLLMService(cfg *config.AIConfig) *LLMService {
	s := &LLMService{cfg: cfg}
	if cfg.IsEnabled() {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.BaseURL
		s.client = openai.NewClientWithConfig(clientCfg)
	} else {
		log.Println("Warning: LLM_API_KEY not set, LLM assistant disabled")
	}
	return s
}

// ClassifyIntent asks the model whether an ambiguous answer hides a
// navigation command. Unknown or failed calls return IntentNone.
func (s *LLMService) ClassifyIntent(ctx context.Context, questionText, answer string) questionnaire.IntentKind {
	if s.client == nil {
		return questionnaire.IntentNone
	}

	prompt := fmt.Sprintf(
		"用户正在回答问卷。当前问题：%s\n用户说：%s\n"+
			"判断用户是否想执行导航操作。只回答以下单词之一：previous、restart、skip、none。",
		questionText, answer)

	reply, err := s.chat(ctx, prompt)
	if err != nil {
		log.Printf("LLM intent classification failed: %v", err)
		return questionnaire.IntentNone
	}

	switch strings.TrimSpace(strings.ToLower(reply)) {
	case "previous":
		return questionnaire.IntentGoToPrevious
	case "restart":
		return questionnaire.IntentRestart
	case "skip":
		return questionnaire.IntentSkip
	}
	return questionnaire.IntentNone
}

// RephraseQuestion turns a catalog prompt into a warmer conversational ask.
// The catalog prompt is the fallback.
func (s *LLMService) RephraseQuestion(ctx context.Context, q *model.Question) string {
	if s.client == nil {
		return q.Prompt
	}

	prompt := fmt.Sprintf(
		"你是一位耐心的肺癌早筛问诊助手。把下面的问卷问题改写成一句自然、温和的口语化提问，"+
			"不要改变问题含义，直接输出改写结果：%s", q.Prompt)

	reply, err := s.chat(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		return q.Prompt
	}
	return strings.TrimSpace(reply)
}

func (s *LLMService) chat(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutMS)*time.Millisecond)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
