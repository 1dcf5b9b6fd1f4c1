package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/domain"
	"github.com/screenx/screenx/internal/repo"
)

type Handlers struct {
	Repo      *repo.Repository
	ChatLimit int
}

// genMeetingID produces a short shareable id. Uniqueness is enforced
// by the store's index, not here.
func genMeetingID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

func genPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (h *Handlers) CreateMeeting(c *gin.Context) {
	var req struct {
		HostName string `json:"hostName"`
	}
	_ = c.ShouldBindJSON(&req)

	now := time.Now()
	m := &domain.Meeting{
		MeetingID:  domain.MeetingID(genMeetingID()),
		HostUserID: c.GetString("client_token"),
		Password:   genPassword(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.Repo.CreateRoom(c.Request.Context(), m); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	log.Info().Str("module", "adapters.http").Str("meeting_id", string(m.MeetingID)).Msg("meeting created")
	c.JSON(http.StatusOK, gin.H{
		"meetingId": m.MeetingID,
		"password":  m.Password,
		"hostName":  req.HostName,
	})
}

func (h *Handlers) GetMeeting(c *gin.Context) {
	id := domain.MeetingID(c.Param("id"))
	m, err := h.Repo.GetRoom(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("meeting_id", string(id)).Msg("get meeting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load meeting"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handlers) GetParticipants(c *gin.Context) {
	id := domain.MeetingID(c.Param("id"))
	names, err := h.Repo.GetParticipants(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("meeting_id", string(id)).Msg("get participants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingId": id, "participants": names})
}

func (h *Handlers) PostChat(c *gin.Context) {
	var req struct {
		MeetingID string `json:"meetingId"`
		Sender    string `json:"sender"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MeetingID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	if _, err := h.Repo.AddChatMessage(c.Request.Context(), domain.MeetingID(req.MeetingID), req.Sender, req.Message); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("meeting_id", req.MeetingID).Msg("post chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) GetChat(c *gin.Context) {
	id := domain.MeetingID(c.Param("id"))
	limit := h.ChatLimit
	if limit <= 0 {
		limit = domain.DefaultChatLimit
	}
	if q := c.Query("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	msgs, err := h.Repo.GetChatHistory(c.Request.Context(), id, limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("meeting_id", string(id)).Msg("get chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingId": id, "messages": msgs})
}

func (h *Handlers) GetSummary(c *gin.Context) {
	id := domain.MeetingID(c.Param("id"))
	m, err := h.Repo.GetRoom(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("meeting_id", string(id)).Msg("get summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}
	if m.Summary == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No summary found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meetingId":    m.MeetingID,
		"summary":      m.Summary,
		"participants": m.Participants,
		"generatedAt":  m.SummaryGeneratedAt,
	})
}
