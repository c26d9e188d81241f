package punishment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/google/go-cmp/cmp"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func entry(kind models.PunishmentKind, guild, user string, in time.Duration) *models.PunishmentEntry {
	return &models.PunishmentEntry{
		Kind:      kind,
		GuildID:   models.Snowflake(guild),
		UserID:    models.Snowflake(user),
		ExpiresAt: models.NewTimestamp(base.Add(in)),
		Reason:    "test",
		Moderator: "1",
	}
}

func TestPutOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Put(entry(models.PunishmentMute, "g", "u", time.Minute))
	r.Put(entry(models.PunishmentMute, "g", "u", time.Hour))

	if got := r.Len(models.PunishmentMute); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
	e, ok := r.Get(models.PunishmentMute, "g", "u")
	if !ok {
		t.Fatal("entry missing")
	}
	if !e.ExpiresAt.Time.Equal(base.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want last write", e.ExpiresAt)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	r := NewRegistry()
	r.Put(entry(models.PunishmentMute, "g", "u", time.Minute))
	r.Put(entry(models.PunishmentBan, "g", "u", time.Minute))

	if _, ok := r.Remove(models.PunishmentMute, "g", "u"); !ok {
		t.Fatal("Remove(mute) found nothing")
	}
	if _, ok := r.Get(models.PunishmentBan, "g", "u"); !ok {
		t.Error("removing the mute removed the ban")
	}
}

func TestRemoveAbsent(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Remove(models.PunishmentBan, "g", "u"); ok {
		t.Error("Remove on empty registry reported an entry")
	}
}

func TestExpired(t *testing.T) {
	r := NewRegistry()
	r.Put(entry(models.PunishmentMute, "g", "a", -time.Minute))
	r.Put(entry(models.PunishmentBan, "g", "b", 0))
	r.Put(entry(models.PunishmentMute, "g", "c", time.Minute))

	due := r.Expired(base)
	var keys []string
	for _, e := range due {
		keys = append(keys, string(e.Kind)+":"+e.Key())
	}
	want := []string{"mute:g_a", "ban:g_b"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("Expired mismatch (-want +got):\n%s", diff)
	}

	if got := r.Len(models.PunishmentMute) + r.Len(models.PunishmentBan); got != 1 {
		t.Errorf("entries left = %d, want 1", got)
	}
	if again := r.Expired(base); len(again) != 0 {
		t.Errorf("second Expired returned %d entries, want 0", len(again))
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Put(entry(models.PunishmentBan, "g", "u", time.Hour))

	e, _ := r.Get(models.PunishmentBan, "g", "u")
	e.Reason = "changed"

	again, _ := r.Get(models.PunishmentBan, "g", "u")
	if again.Reason != "test" {
		t.Error("Get exposes the stored entry")
	}
}

func TestLoadRekeys(t *testing.T) {
	r := NewRegistry()
	r.Load(models.PunishmentBan, map[string]*models.PunishmentEntry{
		"wrong": entry(models.PunishmentMute, "g", "u", time.Hour),
		"nil":   nil,
	})

	e, ok := r.Get(models.PunishmentBan, "g", "u")
	if !ok {
		t.Fatal("loaded entry not found under its composite key")
	}
	if e.Kind != models.PunishmentBan {
		t.Errorf("Kind = %s, want ban", e.Kind)
	}
	if got := r.Export(models.PunishmentBan); len(got) != 1 || got["g_u"] == nil {
		t.Errorf("Export = %v", got)
	}
}

func TestBestEffortSwallowsFailure(t *testing.T) {
	calls := 0
	err := BestEffort{Timeout: time.Second}.Apply(context.Background(), entry(models.PunishmentBan, "g", "u", 0),
		func(ctx context.Context) error {
			calls++
			if _, ok := ctx.Deadline(); !ok {
				t.Error("reversal context has no deadline")
			}
			return errors.New("unknown ban")
		})
	if err != nil {
		t.Errorf("Apply error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("reversal called %d times, want 1", calls)
	}
}
