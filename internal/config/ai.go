package config

import "os"

// AIConfig holds configuration for the LLM, speech and digital-human
// collaborators. Every collaborator is optional; an empty key or URL
// disables it and the service falls back to deterministic behavior.
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	ChatModel string `json:"chatModel"`
	TimeoutMS int    `json:"timeoutMs"`

	TTSURL    string `json:"ttsUrl"`
	TTSVoice  string `json:"ttsVoice"`
	ASRURL    string `json:"asrUrl"`
	AvatarURL string `json:"avatarUrl"`
}

// DefaultAIConfig returns the default AI configuration. The chat endpoint
// is OpenAI-compatible, pointed at Zhipu GLM by default.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("LLM_API_KEY"),
		BaseURL:   getEnvOrDefault("LLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4"),
		ChatModel: getEnvOrDefault("LLM_CHAT_MODEL", "glm-4-flash"),
		TimeoutMS: 10000,

		TTSURL:    os.Getenv("TTS_URL"),
		TTSVoice:  getEnvOrDefault("TTS_VOICE", "zh-CN-XiaoxiaoNeural"),
		ASRURL:    os.Getenv("ASR_URL"),
		AvatarURL: os.Getenv("AVATAR_URL"),
	}
}

// IsEnabled reports whether the LLM collaborator is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
