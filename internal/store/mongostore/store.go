package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/description"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
)

// Config 描述 MongoDB 连接参数。
type Config struct {
	URI                    string
	Database               string
	Collection             string
	RetryInterval          time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

func (c Config) withDefaults() Config {
	if c.Database == "" {
		c.Database = "haircare"
	}
	if c.Collection == "" {
		c.Collection = "chats"
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = store.DefaultRetryInterval
	}
	if c.ServerSelectionTimeout <= 0 {
		c.ServerSelectionTimeout = 5 * time.Second
	}
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = 45 * time.Second
	}
	return c
}

type document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	Content   string             `bson:"content"`
	Timestamp time.Time          `bson:"timestamp"`
}

// Store persists chat records in a MongoDB collection.
type Store struct {
	cfg    Config
	logger *zap.Logger
	status atomic.Value // store.Status
	closed atomic.Bool

	mu         sync.RWMutex
	client     *mongo.Client
	collection *mongo.Collection

	cancel context.CancelFunc
	done   chan struct{}
}

// Open returns immediately and connects in the background, retrying until it succeeds.
func Open(cfg Config, logger *zap.Logger) *Store {
	s := newStore(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := store.ConnectWithRetry(ctx, s.logger, "mongodb", s.cfg.RetryInterval, s.connect); err != nil {
			s.logger.Info("mongodb connect loop stopped", zap.Error(err))
		}
	}()
	return s
}

func newStore(cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		cfg:    cfg.withDefaults(),
		logger: logger.Named("mongodb"),
		cancel: func() {},
		done:   closedChan(),
	}
	s.status.Store(store.StatusConnecting)
	return s
}

func (s *Store) clientOptions() *options.ClientOptions {
	monitor := &event.ServerMonitor{
		TopologyDescriptionChanged: s.onTopologyChanged,
	}

	return options.Client().
		ApplyURI(s.cfg.URI).
		SetServerSelectionTimeout(s.cfg.ServerSelectionTimeout).
		SetSocketTimeout(s.cfg.SocketTimeout).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority()).
		SetServerMonitor(monitor)
}

func (s *Store) connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, s.clientOptions())
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.cfg.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	collection := client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	index := mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		s.logger.Warn("create timestamp index failed", zap.Error(err))
	}

	s.mu.Lock()
	s.client = client
	s.collection = collection
	s.mu.Unlock()
	s.status.Store(store.StatusConnected)
	return nil
}

// onTopologyChanged 根据整个拓扑判断连接状态：只要存在可写节点即视为已连接，
// 单个副本节点心跳失败不影响状态。
func (s *Store) onTopologyChanged(e *event.TopologyDescriptionChangedEvent) {
	current := s.Status()
	if current == store.StatusConnecting || s.closed.Load() {
		return
	}

	if writable(e.NewDescription) {
		if current == store.StatusDisconnected && s.status.CompareAndSwap(current, store.StatusConnected) {
			s.logger.Info("mongodb reconnected successfully")
		}
		return
	}

	if current == store.StatusConnected && s.status.CompareAndSwap(current, store.StatusDisconnected) {
		s.logger.Warn("mongodb disconnected, driver will reconnect", zap.Int("servers", len(e.NewDescription.Servers)))
	}
}

func writable(topology description.Topology) bool {
	for _, server := range topology.Servers {
		switch server.Kind {
		case description.Standalone, description.RSPrimary, description.Mongos, description.LoadBalancer:
			return true
		}
	}
	return false
}

func (s *Store) coll() (*mongo.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.collection == nil {
		return nil, store.ErrUnavailable
	}
	return s.collection, nil
}

// Append implements store.Store.
func (s *Store) Append(ctx context.Context, msg chat.Message) error {
	if err := store.Validate(msg); err != nil {
		return err
	}
	coll, err := s.coll()
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, toDocument(msg)); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// Recent implements store.Store.
func (s *Store) Recent(ctx context.Context, limit int) ([]chat.Message, error) {
	coll, err := s.coll()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(store.ClampLimit(limit)))

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find chat history: %w", err)
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}

	messages := make([]chat.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, fromDocument(doc))
	}
	return messages, nil
}

// Status implements store.Store.
func (s *Store) Status() store.Status {
	status, _ := s.status.Load().(store.Status)
	return status
}

// Close stops the connect loop, waits for it to exit and disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	s.closed.Store(true)
	s.cancel()

	var waitErr error
	select {
	case <-s.done:
	case <-ctx.Done():
		waitErr = fmt.Errorf("waiting for mongodb connect loop: %w", ctx.Err())
	}

	s.mu.Lock()
	client := s.client
	s.client = nil
	s.collection = nil
	s.mu.Unlock()

	s.status.Store(store.StatusDisconnected)
	if client == nil {
		return waitErr
	}
	return errors.Join(waitErr, client.Disconnect(ctx))
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func toDocument(msg chat.Message) document {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return document{
		Type:      string(msg.Type),
		Content:   msg.Content,
		Timestamp: ts,
	}
}

func fromDocument(doc document) chat.Message {
	msg := chat.Message{
		Type:      chat.Type(doc.Type),
		Content:   doc.Content,
		Timestamp: doc.Timestamp.UTC(),
	}
	if !doc.ID.IsZero() {
		msg.ID = doc.ID.Hex()
	}
	return msg
}
