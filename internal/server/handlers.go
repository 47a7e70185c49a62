// ABOUTME: HTTP handlers for sessions, turns, summaries, vocabulary, and speech synthesis
// ABOUTME: Pipeline errors map to status codes through the errs taxonomy
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junwei/hometalk/internal/core"
	"github.com/junwei/hometalk/internal/errs"
	"github.com/junwei/hometalk/internal/logger"
	"github.com/junwei/hometalk/internal/models"
	"github.com/junwei/hometalk/internal/storage/sqlite"
)

// maxAudioUpload bounds one uploaded utterance (a minute of webm is well
// under this).
const maxAudioUpload = 10 << 20

// Synthesizer renders text to playable audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Handler serves the conversation API.
type Handler struct {
	orch  *core.Orchestrator
	agg   *core.Aggregator
	vocab *core.VocabularyExtractor
	tts   Synthesizer
	store *sqlite.Storage
	log   *logger.Logger
}

// NewHandler wires the API surface.
func NewHandler(orch *core.Orchestrator, agg *core.Aggregator, vocab *core.VocabularyExtractor,
	tts Synthesizer, store *sqlite.Storage, log *logger.Logger) *Handler {
	return &Handler{orch: orch, agg: agg, vocab: vocab, tts: tts, store: store, log: log}
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateHousehold registers a household with its language pair and timezone.
func (h *Handler) CreateHousehold(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		LangA    string `json:"lang_a"`
		LangB    string `json:"lang_b"`
		Timezone string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hh, err := models.NewHousehold(req.Name, req.LangA, req.LangB, req.Timezone)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.Households.Upsert(hh); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hh)
}

// GetHousehold returns one household.
func (h *Handler) GetHousehold(c *gin.Context) {
	hh, err := h.store.Households.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Household not found."})
		return
	}
	c.JSON(http.StatusOK, hh)
}

// StartSession opens a new two-turn session.
func (h *Handler) StartSession(c *gin.Context) {
	var req struct {
		HouseholdID string `json:"household_id" binding:"required"`
		InitiatorID string `json:"initiator_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess, err := h.orch.StartSession(c.Request.Context(), req.HouseholdID, req.InitiatorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// SubmitFirstTurn accepts the initiator's recording as multipart audio.
func (h *Handler) SubmitFirstTurn(c *gin.Context) {
	h.submitTurn(c, h.orch.SubmitFirstTurn)
}

// SubmitReplyTurn accepts the reply recording.
func (h *Handler) SubmitReplyTurn(c *gin.Context) {
	h.submitTurn(c, h.orch.SubmitReplyTurn)
}

func (h *Handler) submitTurn(c *gin.Context, submit func(context.Context, string, []byte, string) (*core.TurnResult, error)) {
	audio, mimeType, err := readAudio(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := submit(c.Request.Context(), c.Param("id"), audio, mimeType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// readAudio pulls the uploaded utterance out of the multipart form.
func readAudio(c *gin.Context) ([]byte, string, error) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		return nil, "", errors.New("multipart field 'audio' is required")
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		return nil, "", err
	}
	return audio, header.Header.Get("Content-Type"), nil
}

// ListTurns returns a session's persisted turns.
func (h *Handler) ListTurns(c *gin.Context) {
	turns, err := h.store.Turns.GetBySession(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

// GenerateSummary builds (or rebuilds) the daily digest for a household.
func (h *Handler) GenerateSummary(c *gin.Context) {
	var req struct {
		HouseholdID string `json:"household_id" binding:"required"`
		Date        string `json:"date"` // YYYY-MM-DD, empty = today
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.agg.Generate(c.Request.Context(), req.HouseholdID, req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSummary returns the stored digest for a household and date.
func (h *Handler) GetSummary(c *gin.Context) {
	householdID := c.Query("household_id")
	date := c.Query("date")
	if householdID == "" || date == "" {
		badRequest(c, errors.New("household_id and date are required"))
		return
	}

	summary, err := h.store.Summaries.Get(householdID, date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "No summary for that date."})
		return
	}
	phrases, err := h.store.Summaries.GetPhrases(householdID, date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, core.SummaryResult{Summary: summary, Phrases: phrases})
}

// GetVocabulary extracts the day's study vocabulary on demand.
func (h *Handler) GetVocabulary(c *gin.Context) {
	householdID := c.Query("household_id")
	if householdID == "" {
		badRequest(c, errors.New("household_id is required"))
		return
	}

	result, err := h.vocab.Extract(c.Request.Context(), householdID, c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Speak synthesizes text to mp3 for browser playback.
func (h *Handler) Speak(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	audio, err := h.tts.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}

// writeError maps pipeline errors to HTTP through the error taxonomy.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := errs.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "empty_audio", "empty_speech":
		status = http.StatusUnprocessableEntity
	case "transcription_unavailable":
		status = http.StatusServiceUnavailable
	case "translation_empty", "translation_cut_off", "invalid_summary_structure":
		status = http.StatusBadGateway
	case "no_conversations":
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	} else {
		h.log.Warn("request failed", "path", c.FullPath(), "kind", kind, "error", err)
	}
	c.JSON(status, gin.H{"error": kind, "message": errs.UserMessage(err)})
}
