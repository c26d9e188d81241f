package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"github.com/PancyStudios/MultiGameBot/pkg/models"
	"github.com/PancyStudios/MultiGameBot/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// SnapshotCollection holds the mirrored state document
	SnapshotCollection = "snapshots"
	snapshotID         = "state"
)

// ErrOffline is returned by Load while the database is unreachable
var ErrOffline = errors.New("base de datos desconectada")

// snapshotDocument is the stored shape of the mirror
type snapshotDocument struct {
	ID        string           `bson:"_id"`
	Snapshot  *models.Snapshot `bson:"snapshot"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// SnapshotStore mirrors the snapshot into a single MongoDB document. It
// implements storage.Store.
type SnapshotStore struct {
	db  *Database
	now func() time.Time
}

// NewSnapshotStore creates a mirror over db
func NewSnapshotStore(db *Database) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// Name implements storage.Store
func (s *SnapshotStore) Name() string {
	return fmt.Sprintf("mongo:%s/%s", s.db.Name(), SnapshotCollection)
}

// Load implements storage.Store
func (s *SnapshotStore) Load(ctx context.Context) (*models.Snapshot, error) {
	col := s.collection()
	if col == nil {
		return nil, ErrOffline
	}

	var doc snapshotDocument
	err := col.FindOne(ctx, bson.M{"_id": snapshotID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		s.checkNetwork(err)
		return nil, fmt.Errorf("%w: %v", storage.ErrMalformed, err)
	}
	if doc.Snapshot == nil {
		return nil, storage.ErrNotFound
	}
	doc.Snapshot.Normalize()
	return doc.Snapshot, nil
}

// Save implements storage.Store. While offline the document is queued and
// written on reconnect.
func (s *SnapshotStore) Save(ctx context.Context, snap *models.Snapshot) error {
	doc := snapshotDocument{ID: snapshotID, Snapshot: snap.Clone(), UpdatedAt: s.now()}
	op := QueuedOperation{CollectionName: SnapshotCollection, ID: snapshotID, Document: doc}

	col := s.collection()
	if col == nil {
		s.db.AddToWriteQueue(op)
		logger.Debug("Base de datos offline, instantánea encolada", "DB")
		return nil
	}

	_, err := col.ReplaceOne(ctx, bson.M{"_id": snapshotID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if s.checkNetwork(err) {
			s.db.AddToWriteQueue(op)
		}
		return fmt.Errorf("replicando instantánea: %w", err)
	}
	return nil
}

func (s *SnapshotStore) collection() *mongo.Collection {
	if !s.db.Connected() {
		return nil
	}
	return s.db.GetCollection(SnapshotCollection)
}

// checkNetwork flips the database to offline mode on connectivity errors
func (s *SnapshotStore) checkNetwork(err error) bool {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		s.db.MarkDisconnected()
		return true
	}
	return false
}
