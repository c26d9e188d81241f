package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/google/go-cmp/cmp"
)

func sampleSnapshot() *models.Snapshot {
	snap := models.NewSnapshot()
	join := models.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	last := models.TimestampPtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	snap.UserData["10"] = map[string]*models.UserRecord{
		"20": {
			XP: 320, Level: 2, MessagesSent: 16, LastXPTime: last, TotalXPGained: 320, JoinDate: join,
			Warnings: []models.Warning{{ID: 1, Reason: "spam", Moderator: "30", Date: join}},
		},
	}
	snap.GuildSettings["20"] = &models.GuildSettings{WelcomeChannel: "99"}
	snap.BannedUsers["20_11"] = &models.PunishmentEntry{
		Kind: models.PunishmentBan, UserID: "11", GuildID: "20",
		ExpiresAt: models.NewTimestamp(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		Reason:    "raid", Moderator: "30",
	}
	return snap
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "bot_data.json")
	store := NewFileStore(path)
	ctx := context.Background()

	want := sampleSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp*"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestFileStoreWritesLegacyFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	store := NewFileStore(path)
	if err := store.Save(context.Background(), sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"user_data"`, `"guild_settings"`, `"muted_users"`, `"banned_users"`, `"unban_time"`, `"20_11"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("document missing %s:\n%s", field, data)
		}
	}
}

func TestFileStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if _, err := NewFileStore(filepath.Join(dir, "missing.json")).Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(bad).Load(ctx); !errors.Is(err, ErrMalformed) {
		t.Errorf("Load(bad) error = %v, want ErrMalformed", err)
	}
}

func TestGatewayLoadMissingCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	g := NewGateway(NewFileStore(path))

	snap := g.Load(context.Background())
	if snap == nil || len(snap.UserData) != 0 {
		t.Fatalf("Load = %+v, want empty snapshot", snap)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("missing document was not created: %v", err)
	}
}

func TestGatewayLoadMalformedQuarantines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot_data.json")
	if err := os.WriteFile(path, []byte(`{"user_data": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := NewGateway(NewFileStore(path)).Load(context.Background())
	if snap == nil || len(snap.UserData) != 0 {
		t.Fatalf("Load = %+v, want empty snapshot", snap)
	}

	moved, _ := filepath.Glob(path + ".corrupt-*")
	if len(moved) != 1 {
		t.Errorf("corrupt copies = %v, want 1", moved)
	}
}

type memStore struct {
	mu      sync.Mutex
	name    string
	snap    *models.Snapshot
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Name() string { return m.name }

func (m *memStore) Load(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, ErrNotFound
	}
	return m.snap.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	return nil
}

func TestGatewayFallsBackToMirror(t *testing.T) {
	primary := &memStore{name: "primary"}
	mirror := &memStore{name: "mirror", snap: sampleSnapshot()}

	snap := NewGateway(primary, mirror).Load(context.Background())
	if len(snap.UserData) != 1 {
		t.Fatalf("Load did not use the mirror: %+v", snap)
	}
	if primary.snap == nil {
		t.Error("recovered snapshot was not written back to the primary")
	}
}

func TestGatewayFlush(t *testing.T) {
	primary := &memStore{name: "primary"}
	mirror := &memStore{name: "mirror", saveErr: errors.New("offline")}
	g := NewGateway(primary)
	g.AddMirror(mirror)

	if err := g.Flush(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("Flush error = %v, mirror failures must not surface", err)
	}
	if primary.saves != 1 || mirror.saves != 1 {
		t.Errorf("saves primary=%d mirror=%d, want 1 and 1", primary.saves, mirror.saves)
	}
	last, lastErr := g.Status()
	if last.IsZero() || lastErr != nil {
		t.Errorf("Status = (%v, %v)", last, lastErr)
	}

	primary.saveErr = errors.New("disk full")
	if err := g.Flush(context.Background(), sampleSnapshot()); err == nil {
		t.Error("Flush should report primary failures")
	}
	if _, lastErr := g.Status(); lastErr == nil {
		t.Error("Status should keep the last error")
	}
}
