package handler

import (
	"net/http"

	"lungscreen/internal/service"
)

// Uploads above this size are rejected before hitting the ASR backend
const maxAudioUpload = 10 << 20

// SpeechHandler handles speech transcription endpoints
type SpeechHandler struct {
	transcriber service.Transcriber
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(transcriber service.Transcriber) *SpeechHandler {
	return &SpeechHandler{transcriber: transcriber}
}

// Transcribe handles POST /v1/speech/transcribe
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
