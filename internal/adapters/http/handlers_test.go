package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenx/screenx/internal/cache"
	"github.com/screenx/screenx/internal/domain"
	"github.com/screenx/screenx/internal/repo"
)

type fakeStore struct {
	meetings map[domain.MeetingID]*domain.Meeting
	chats    map[domain.MeetingID][]domain.ChatMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		meetings: make(map[domain.MeetingID]*domain.Meeting),
		chats:    make(map[domain.MeetingID][]domain.ChatMessage),
	}
}

func (s *fakeStore) GetMeeting(_ context.Context, id domain.MeetingID) (*domain.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) CreateMeeting(_ context.Context, m *domain.Meeting) error {
	cp := *m
	s.meetings[m.MeetingID] = &cp
	return nil
}

func (s *fakeStore) UpdateMeeting(_ context.Context, id domain.MeetingID, patch domain.MeetingPatch) (*domain.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, nil
	}
	if patch.Locked != nil {
		m.Locked = *patch.Locked
	}
	if patch.Summary != nil {
		m.Summary = *patch.Summary
	}
	if patch.SummaryGeneratedAt != nil {
		m.SummaryGeneratedAt = patch.SummaryGeneratedAt
	}
	if patch.Participants != nil {
		m.Participants = patch.Participants
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) ListChat(_ context.Context, id domain.MeetingID, limit int) ([]domain.ChatMessage, error) {
	msgs := s.chats[id]
	// Newest first, like the real store.
	out := make([]domain.ChatMessage, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (s *fakeStore) InsertChat(_ context.Context, msg *domain.ChatMessage) error {
	s.chats[msg.MeetingID] = append(s.chats[msg.MeetingID], *msg)
	return nil
}

func (s *fakeStore) GetUser(_ context.Context, _ domain.UserID) (*domain.User, error) {
	return nil, nil
}

func (s *fakeStore) DistinctSenders(_ context.Context, id domain.MeetingID) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, m := range s.chats[id] {
		if m.Sender != "" && !seen[m.Sender] {
			seen[m.Sender] = true
			out = append(out, m.Sender)
		}
	}
	return out, nil
}

func newTestAPI(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	mem := cache.NewMemory(time.Hour)
	t.Cleanup(func() { _ = mem.Close() })

	h := &Handlers{Repo: repo.New(store, mem, repo.DefaultTTLs()), ChatLimit: 50}

	engine := gin.New()
	api := engine.Group("/api")
	api.POST("/meetings", h.CreateMeeting)
	api.GET("/meetings/:id", h.GetMeeting)
	api.GET("/meetings/:id/participants", h.GetParticipants)
	api.POST("/chat", h.PostChat)
	api.GET("/chat/:id", h.GetChat)
	api.GET("/summary/:id", h.GetSummary)
	return engine, store
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateMeetingReturnsCredentials(t *testing.T) {
	engine, store := newTestAPI(t)

	w := doJSON(engine, http.MethodPost, "/api/meetings", map[string]string{"hostName": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		MeetingID string `json:"meetingId"`
		Password  string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.MeetingID)
	assert.NotEmpty(t, resp.Password)

	_, ok := store.meetings[domain.MeetingID(resp.MeetingID)]
	assert.True(t, ok, "meeting should be persisted")
}

func TestGetMeetingNotFound(t *testing.T) {
	engine, _ := newTestAPI(t)

	w := doJSON(engine, http.MethodGet, "/api/meetings/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMeetingHidesPassword(t *testing.T) {
	engine, store := newTestAPI(t)
	store.meetings["m1"] = &domain.Meeting{MeetingID: "m1", Password: "secret"}

	w := doJSON(engine, http.MethodGet, "/api/meetings/m1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestPostChatValidation(t *testing.T) {
	engine, _ := newTestAPI(t)

	w := doJSON(engine, http.MethodPost, "/api/chat", map[string]string{"sender": "Alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRoundTripIsChronological(t *testing.T) {
	engine, _ := newTestAPI(t)

	for _, msg := range []string{"first", "second", "third"} {
		w := doJSON(engine, http.MethodPost, "/api/chat", map[string]string{
			"meetingId": "m1", "sender": "Alice", "message": msg,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(engine, http.MethodGet, "/api/chat/m1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "first", resp.Messages[0].Message)
	assert.Equal(t, "third", resp.Messages[2].Message)
}

func TestGetChatLimitQuery(t *testing.T) {
	engine, _ := newTestAPI(t)

	for _, msg := range []string{"a", "b", "c"} {
		doJSON(engine, http.MethodPost, "/api/chat", map[string]string{
			"meetingId": "m1", "sender": "Alice", "message": msg,
		})
	}

	w := doJSON(engine, http.MethodGet, "/api/chat/m1?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 2)
}

func TestGetParticipantsFromChatSenders(t *testing.T) {
	engine, _ := newTestAPI(t)

	for _, sender := range []string{"Alice", "Bob", "Alice"} {
		doJSON(engine, http.MethodPost, "/api/chat", map[string]string{
			"meetingId": "m1", "sender": sender, "message": "hi",
		})
	}

	w := doJSON(engine, http.MethodGet, "/api/meetings/m1/participants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Participants []string `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, resp.Participants)
}

func TestGetSummary(t *testing.T) {
	engine, store := newTestAPI(t)

	w := doJSON(engine, http.MethodGet, "/api/summary/m1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.meetings["m1"] = &domain.Meeting{MeetingID: "m1"}
	w = doJSON(engine, http.MethodGet, "/api/summary/m1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts := time.Now()
	store.meetings["m2"] = &domain.Meeting{
		MeetingID:          "m2",
		Summary:            "we agreed on the plan",
		SummaryGeneratedAt: &ts,
		Participants:       []string{"Alice", "Bob"},
	}
	w = doJSON(engine, http.MethodGet, "/api/summary/m2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "we agreed on the plan")
}
