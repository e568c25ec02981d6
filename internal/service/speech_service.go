package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lungscreen/internal/config"
)

// Synthesizer produces an audio artifact URL for a piece of text
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Transcriber converts uploaded speech into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Audio longer than this is cut at Chinese punctuation before synthesis
const maxSpeechChunk = 45

var speechCutpoints = []rune{'。', '！', '？', '；', '，', '!', '?', ';', ','}

// SpeechService is a thin HTTP client for the TTS and ASR endpoints with a
// disk cache for synthesized audio. Either endpoint may be unconfigured.
type SpeechService struct {
	cfg      *config.AIConfig
	client   *http.Client
	mediaDir string
}

// NewSpeechService creates a new speech service writing audio under mediaDir
func NewSpeechService(cfg *config.AIConfig, mediaDir string) *SpeechService {
	if cfg.TTSURL == "" {
		log.Println("Warning: TTS_URL not set, speech synthesis disabled")
	}
	return &SpeechService{
		cfg:      cfg,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		mediaDir: mediaDir,
	}
}

// Synthesize returns a served path for the audio of text, reusing the cached
// file when the same text was synthesized before. Disabled service returns
// an empty path and no error.
func (s *SpeechService) Synthesize(ctx context.Context, text string) (string, error) {
	if s.cfg.TTSURL == "" || strings.TrimSpace(text) == "" {
		return "", nil
	}

	name := s.cacheName(text)
	path := filepath.Join(s.mediaDir, name)
	if _, err := os.Stat(path); err == nil {
		return "/static/media/" + name, nil
	}

	var audio bytes.Buffer
	for _, chunk := range SplitForSpeech(text, maxSpeechChunk) {
		data, err := s.synthesizeChunk(ctx, chunk)
		if err != nil {
			return "", err
		}
		audio.Write(data)
	}

	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(path, audio.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write audio cache: %w", err)
	}
	return "/static/media/" + name, nil
}

func (s *SpeechService) synthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text, "voice": s.cfg.TTSVoice})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TTSURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Transcribe uploads audio to the ASR endpoint and returns the recognized
// text
func (s *SpeechService) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if s.cfg.ASRURL == "" {
		return "", fmt.Errorf("asr endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ASRURL, audio)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Filename", filename)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("asr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asr request: status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("asr response: %w", err)
	}
	return result.Text, nil
}

func (s *SpeechService) cacheName(text string) string {
	sum := sha1.Sum([]byte(s.cfg.TTSVoice + "|" + text))
	return hex.EncodeToString(sum[:]) + ".mp3"
}

// SplitForSpeech cuts text into chunks of at most max runes, preferring to
// break after punctuation so the voice pauses naturally. max must be
// positive; text shorter than max comes back as a single chunk.
func SplitForSpeech(text string, max int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= max {
		return []string{string(runes)}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= max {
			chunks = append(chunks, string(runes))
			break
		}
		cut := max
		for i := max; i > 0; i-- {
			if isCutpoint(runes[i-1]) {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}

func isCutpoint(r rune) bool {
	for _, c := range speechCutpoints {
		if r == c {
			return true
		}
	}
	return false
}
