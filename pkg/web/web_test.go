package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

type fixedRand int

func (f fixedRand) Intn(int) int { return int(f) }

type fakeBot struct{}

func (fakeBot) IsReady() bool   { return true }
func (fakeBot) GuildCount() int { return 2 }

type fakeFlush struct{ err error }

func (f fakeFlush) Status() (time.Time, error) {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), f.err
}

func newTestState(t *testing.T) *state.Manager {
	t.Helper()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := state.NewManager(
		state.WithClock(func() time.Time { return clock }),
		state.WithRand(fixedRand(5)),
	)
	for i, user := range []string{"10", "20", "30"} {
		for j := 0; j <= i; j++ {
			st.OnChatMessage(user, "g1", false)
			clock = clock.Add(61 * time.Second)
		}
	}
	st.PutPunishment(&models.PunishmentEntry{
		Kind:      models.PunishmentMute,
		UserID:    "10",
		GuildID:   "g1",
		ExpiresAt: models.NewTimestamp(clock.Add(time.Hour)),
		Reason:    "spam",
		Moderator: "99",
	})
	return st
}

func newTestServer(t *testing.T, opts Options, api API) *Server {
	t.Helper()
	s, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	SetupAPIRoutes(s, api)
	return s
}

func get(t *testing.T, s *Server, host, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if host != "" {
		req.Host = host
	}
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestInvalidAllowedHosts(t *testing.T) {
	if _, err := NewServer(Options{AllowedHosts: "("}); err == nil {
		t.Error("invalid regex should fail")
	}
}

func TestHostFilter(t *testing.T) {
	s := newTestServer(t, Options{AllowedHosts: `^(.+\.)?miau\.media`}, API{})

	if rec := get(t, s, "api.miau.media", "/api/health"); rec.Code != http.StatusOK {
		t.Errorf("allowed host status = %d", rec.Code)
	}
	if rec := get(t, s, "evil.example", "/api/health"); rec.Code != http.StatusForbidden {
		t.Errorf("foreign host status = %d, want 403", rec.Code)
	}
}

func TestErrorHandlers(t *testing.T) {
	s := newTestServer(t, Options{}, API{})

	rec := get(t, s, "", "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d, want 405", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: RateLimitConfig{WindowMs: time.Minute, MaxRequests: 2}}, API{})

	for i := 0; i < 2; i++ {
		if rec := get(t, s, "", "/api/health"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := get(t, s, "", "/api/health"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", rec.Code)
	}
}

func TestWebhookLog(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
	}))
	defer hook.Close()

	s := newTestServer(t, Options{WebhookURL: hook.URL}, API{})
	get(t, s, "", "/api/health?x=1")

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(bodies)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("webhook never called")
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(bodies[0], "/api/health") || !strings.Contains(bodies[0], "x=1") {
		t.Errorf("webhook body = %s", bodies[0])
	}
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, Options{}, API{
		State:   newTestState(t),
		Bot:     fakeBot{},
		Storage: fakeFlush{err: errors.New("disco lleno")},
	})

	rec := get(t, s, "", "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Bot struct {
			IsOnline bool `json:"isOnline"`
			Guilds   int  `json:"guilds"`
		} `json:"bot"`
		Database struct {
			Enabled bool `json:"enabled"`
		} `json:"database"`
		Storage struct {
			LastFlush string `json:"lastFlush"`
			LastError string `json:"lastError"`
		} `json:"storage"`
		Totals state.Totals `json:"totals"`
	}
	decode(t, rec, &body)

	if !body.Bot.IsOnline || body.Bot.Guilds != 2 {
		t.Errorf("bot = %+v", body.Bot)
	}
	if body.Database.Enabled {
		t.Error("database should be reported disabled")
	}
	if body.Storage.LastFlush != "2024-05-01T12:00:00Z" || body.Storage.LastError != "disco lleno" {
		t.Errorf("storage = %+v", body.Storage)
	}
	if body.Totals.Users != 3 || body.Totals.ActiveMutes != 1 {
		t.Errorf("totals = %+v", body.Totals)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newTestServer(t, Options{}, API{State: newTestState(t)})

	rec := get(t, s, "", "/api/guilds/g1/leaderboard?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Entries []struct {
			Position int    `json:"position"`
			UserID   string `json:"userId"`
			XP       int64  `json:"xp"`
		} `json:"entries"`
	}
	decode(t, rec, &body)

	got := make([]string, 0, len(body.Entries))
	for _, e := range body.Entries {
		got = append(got, e.UserID)
	}
	if diff := cmp.Diff([]string{"30", "20"}, got); diff != "" {
		t.Errorf("leaderboard order (-want +got):\n%s", diff)
	}
	if body.Entries[0].XP != 60 {
		t.Errorf("top xp = %d, want 60", body.Entries[0].XP)
	}

	if rec := get(t, s, "", "/api/guilds/g1/leaderboard?limit=abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestUserProfile(t *testing.T) {
	s := newTestServer(t, Options{}, API{State: newTestState(t)})

	rec := get(t, s, "", "/api/guilds/g1/users/20")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p state.Profile
	decode(t, rec, &p)
	if p.Rank != 2 || p.Record.XP != 40 {
		t.Errorf("profile rank=%d xp=%d", p.Rank, p.Record.XP)
	}

	if rec := get(t, s, "", "/api/guilds/g1/users/404"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d", rec.Code)
	}
}

func TestPunishments(t *testing.T) {
	s := newTestServer(t, Options{}, API{State: newTestState(t)})

	rec := get(t, s, "", "/api/guilds/g1/punishments")
	var body struct {
		Punishments []punishmentView `json:"punishments"`
	}
	decode(t, rec, &body)
	if len(body.Punishments) != 1 || body.Punishments[0].Kind != models.PunishmentMute || body.Punishments[0].UserID != "10" {
		t.Errorf("punishments = %+v", body.Punishments)
	}

	rec = get(t, s, "", "/api/guilds/g1/punishments?kind=ban")
	decode(t, rec, &body)
	if len(body.Punishments) != 0 {
		t.Errorf("bans = %+v", body.Punishments)
	}

	if rec := get(t, s, "", "/api/guilds/g1/punishments?kind=kick"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", rec.Code)
	}
}

func TestNoState(t *testing.T) {
	s := newTestServer(t, Options{}, API{})
	if rec := get(t, s, "", "/api/guilds/g1/stats"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHubStreamsEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	s := newTestServer(t, Options{}, API{Hub: hub})

	ts := httptest.NewServer(s.Engine())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events?guildId=g1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(bus.NewEvent(bus.EventLevelUp, "other", "u1", nil))
	hub.Publish(bus.NewEvent(bus.EventLevelUp, "g1", "u2", map[string]interface{}{"level": 3}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e bus.Event
	if err := json.Unmarshal(msg, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.GuildID != "g1" || e.UserID != "u2" {
		t.Errorf("event = %+v, want the g1 event only", e)
	}
}
