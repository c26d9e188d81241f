package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/bus"
	"github.com/PancyStudios/MultiGameBot/pkg/state"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestEventTopic(t *testing.T) {
	if got := EventTopic(bus.EventLevelUp); got != "multigame/events/level_up" {
		t.Errorf("EventTopic() = %q", got)
	}
}

func TestHandleRequest(t *testing.T) {
	raw := []byte(`{"correlationId":"abc","payload":{"guildId":"1"}}`)

	var seen map[string]interface{}
	topic, resp, err := handleRequest("multigame/request/stats", raw, func(p map[string]interface{}) (interface{}, error) {
		seen = p
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("handleRequest() error = %v", err)
	}
	if topic != "multigame/response/stats/abc" {
		t.Errorf("response topic = %q", topic)
	}
	if diff := cmp.Diff(Response{CorrelationID: "abc", Data: "ok"}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if seen["_topic"] != "stats" || seen["guildId"] != "1" {
		t.Errorf("payload = %v", seen)
	}

	_, resp, _ = handleRequest("multigame/request/stats", raw, func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("fallo")
	})
	if resp.Error != "fallo" || resp.Data != nil {
		t.Errorf("error response = %+v", resp)
	}

	if _, _, err := handleRequest("multigame/request/stats", []byte("{"), nil); err == nil {
		t.Error("malformed request should fail")
	}
	if _, _, err := handleRequest("multigame/request/stats", []byte(`{"payload":{}}`), nil); err == nil {
		t.Error("request without correlationId should fail")
	}
}

func TestBrokerHandlerLookup(t *testing.T) {
	b := &Broker{handlers: map[string]RequestHandler{}}
	b.On("stats", func(map[string]interface{}) (interface{}, error) { return 1, nil })

	if got, err := b.handler("stats")(nil); err != nil || got != 1 {
		t.Errorf("stats handler = %v, %v", got, err)
	}

	raw := []byte(`{"correlationId":"x"}`)
	_, resp, err := handleRequest("multigame/request/nope", raw, b.handler("nope"))
	if err != nil {
		t.Fatalf("handleRequest() error = %v", err)
	}
	if resp.Error != "petición desconocida: nope" {
		t.Errorf("unknown request error = %q", resp.Error)
	}
}

type fixedRand int

func (f fixedRand) Intn(int) int { return int(f) }

type fakeRegistrar map[string]RequestHandler

func (f fakeRegistrar) On(topic string, cb RequestHandler) { f[topic] = cb }

func TestStateHandlers(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := now
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

	r := fakeRegistrar{}
	RegisterStateHandlers(r, st)
	if len(r) != 3 {
		t.Fatalf("registered %d handlers, want 3", len(r))
	}

	out, err := r["leaderboard"](map[string]interface{}{"guildId": "g1", "limit": float64(2)})
	if err != nil {
		t.Fatalf("leaderboard error = %v", err)
	}
	rows := out.([]map[string]interface{})
	if len(rows) != 2 {
		t.Fatalf("leaderboard len = %d, want 2", len(rows))
	}
	if rows[0]["userId"] != "30" || rows[0]["position"] != 1 {
		t.Errorf("first row = %v", rows[0])
	}

	if _, err := r["leaderboard"](map[string]interface{}{}); !errors.Is(err, errMissingField) {
		t.Errorf("leaderboard without guild error = %v", err)
	}

	out, err = r["profile"](map[string]interface{}{"guildId": "g1", "userId": "10"})
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}
	p := out.(state.Profile)
	if p.Rank != 3 || p.Members != 3 {
		t.Errorf("profile rank = %d/%d, want 3/3", p.Rank, p.Members)
	}

	if _, err := r["profile"](map[string]interface{}{"guildId": "g1", "userId": "99"}); !errors.Is(err, errUnknownUser) {
		t.Errorf("profile of unknown user error = %v", err)
	}
	if _, ok := st.UserRecord("99", "g1"); ok {
		t.Error("profile of unknown user created a record")
	}

	out, _ = r["stats"](map[string]interface{}{})
	if totals := out.(state.Totals); totals.Users != 3 {
		t.Errorf("totals users = %d, want 3", totals.Users)
	}
	out, _ = r["stats"](map[string]interface{}{"guildId": "g1"})
	if stats := out.(state.GuildStats); stats.RegisteredUsers != 3 || stats.TotalMessages != 6 {
		t.Errorf("guild stats = %+v", stats)
	}
}

func TestLeaderboardLimitIsCapped(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := state.NewManager(state.WithClock(func() time.Time { return clock }))
	for i := 0; i < maxLeaderboardLimit+5; i++ {
		st.OnChatMessage(fmt.Sprint(1000+i), "g1", false)
	}

	out, err := leaderboardHandler(st)(map[string]interface{}{"guildId": "g1", "limit": float64(1e9)})
	if err != nil {
		t.Fatalf("leaderboard error = %v", err)
	}
	if rows := out.([]map[string]interface{}); len(rows) != maxLeaderboardLimit {
		t.Errorf("leaderboard len = %d, want %d", len(rows), maxLeaderboardLimit)
	}
}

type fakeBroker struct {
	mu        sync.Mutex
	connected bool
	topics    []string
	payloads  [][]byte
}

func (f *fakeBroker) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeBroker) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeBroker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEventPublisher(t *testing.T) {
	broker := &fakeBroker{connected: true}
	ep := NewEventPublisher(broker)
	defer ep.Stop()

	ep.Publish(bus.NewEvent(bus.EventLevelUp, "g1", "u1", map[string]interface{}{"level": 2}))
	waitFor(t, func() bool { return broker.count() == 1 })

	broker.mu.Lock()
	topic, payload := broker.topics[0], broker.payloads[0]
	broker.mu.Unlock()
	if topic != "multigame/events/level_up" {
		t.Errorf("topic = %q", topic)
	}
	var decoded bus.Event
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if decoded.GuildID != "g1" || decoded.UserID != "u1" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestEventPublisherDropsWhileOffline(t *testing.T) {
	broker := &fakeBroker{}
	ep := NewEventPublisher(broker)
	defer ep.Stop()

	ep.Publish(bus.NewEvent(bus.EventWarningIssued, "g1", "u1", nil))
	waitFor(t, func() bool { return ep.Dropped() == 1 })
	if broker.count() != 0 {
		t.Error("offline broker should receive nothing")
	}

	ep.Stop()
	ep.Publish(bus.NewEvent(bus.EventWarningIssued, "g1", "u1", nil))
	if broker.count() != 0 {
		t.Error("stopped publisher should not forward")
	}
}
