// Package database provides the MongoDB connection used to mirror the bot
// snapshot. Writes issued while offline are queued and synced on reconnect.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/MultiGameBot/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// QueuedOperation represents a pending document replacement
type QueuedOperation struct {
	CollectionName string
	ID             string
	Document       interface{}
}

func (op QueuedOperation) key() string {
	return op.CollectionName + ":" + op.ID
}

// Database manages the MongoDB connection
type Database struct {
	client          *mongo.Client
	db              *mongo.Database
	IsConnected     bool
	mongoURL        string
	dbName          string
	writeQueue      []QueuedOperation
	reconnectTicker *time.Ticker
	reconnectEvery  time.Duration
	stopReconnect   chan struct{}
	stopOnce        sync.Once
	mu              sync.RWMutex
	queueMu         sync.Mutex
	collections     map[string]*mongo.Collection
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		IsConnected:    false,
		writeQueue:     make([]QueuedOperation, 0),
		reconnectEvery: 15 * time.Second,
		stopReconnect:  make(chan struct{}),
		collections:    make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB. On failure a background loop
// keeps retrying.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.IsConnected {
		return nil
	}
	d.mongoURL, d.dbName = mongoURL, dbName

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		d.startReconnectLocked()
		return err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(context.Background())
		d.startReconnectLocked()
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.IsConnected = true

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	// Stop reconnection attempts if active
	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	// Sync any queued operations
	go d.syncOfflineWrites()

	return nil
}

// MarkDisconnected switches to offline mode after a network failure
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.IsConnected {
		return
	}
	d.IsConnected = false
	logger.Warn("Se perdió la conexión con la base de datos. Activando modo offline.", "DB")
	d.startReconnectLocked()
}

// startReconnectLocked starts the reconnection loop. d.mu must be held.
func (d *Database) startReconnectLocked() {
	if d.reconnectTicker != nil || d.mongoURL == "" {
		return
	}
	select {
	case <-d.stopReconnect:
		return
	default:
	}

	ticker := time.NewTicker(d.reconnectEvery)
	d.reconnectTicker = ticker
	mongoURL, dbName := d.mongoURL, d.dbName

	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				d.mu.Lock()
				if d.reconnectTicker == ticker {
					ticker.Stop()
					d.reconnectTicker = nil
				}
				d.mu.Unlock()
				_ = d.Connect(mongoURL, dbName)
				return
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := d.client.Disconnect(ctx)
		if err != nil {
			return err
		}
		d.client = nil
		d.db = nil
		d.IsConnected = false
		logger.Warn("La base de datos ha sido desconectada", "DB")
	}
	return nil
}

// Connected reports whether the last connection attempt succeeded
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.IsConnected
}

// Ping measures the database response time
func (d *Database) Ping() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.IsConnected || d.client == nil {
		return 0, fmt.Errorf("not connected to database")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil {
		return "🔴 | Desconectado", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.client.Ping(ctx, readpref.Primary())
	if err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a MongoDB collection, nil while offline
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// AddToWriteQueue queues a replacement for when the connection returns.
// A newer write to the same document supersedes the queued one.
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	for i := range d.writeQueue {
		if d.writeQueue[i].key() == op.key() {
			d.writeQueue[i] = op
			return
		}
	}
	d.writeQueue = append(d.writeQueue, op)
}

// requeue puts back failed writes unless a newer write to the same document
// was queued meanwhile
func (d *Database) requeue(ops []QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	pending := make(map[string]bool, len(d.writeQueue))
	for _, op := range d.writeQueue {
		pending[op.key()] = true
	}
	for _, op := range ops {
		if !pending[op.key()] {
			d.writeQueue = append(d.writeQueue, op)
		}
	}
}

// QueueLen returns the number of pending writes
func (d *Database) QueueLen() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites syncs queued operations with the database
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Sincronizando %d operaciones pendientes con la DB...", len(d.writeQueue)), "DB-Sync")

	operations := make([]QueuedOperation, len(d.writeQueue))
	copy(operations, d.writeQueue)
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := col.ReplaceOne(ctx, bson.M{"_id": op.ID}, op.Document, options.Replace().SetUpsert(true))
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Error al sincronizar operación para '%s'. La operación se volverá a encolar.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.requeue(failedOps)
		logger.Warn(fmt.Sprintf("%d operaciones no pudieron sincronizarse y se reintentarán.", len(failedOps)), "DB-Sync")
	} else {
		logger.Success("Sincronización completada exitosamente.", "DB-Sync")
	}
}

// Name returns the configured database name
func (d *Database) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dbName
}
