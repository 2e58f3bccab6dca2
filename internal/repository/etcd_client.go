package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/util"
)

const (
	// etcd key prefixes
	keyLastFailover          = "dr-dashboard/failover/last"
	keyFailoverHistoryPrefix = "dr-dashboard/failover/history/"
)

// ErrNoFailoverRecord is returned when no failover has been journaled yet
var ErrNoFailoverRecord = errors.New("no failover record found")

// JournalRepository records confirmed failover requests
type JournalRepository interface {
	// WriteFailover stores a failover record as the latest one and appends it to the history
	WriteFailover(ctx context.Context, record *model.FailoverRecord) error

	// ReadLastFailover reads the most recent failover record
	ReadLastFailover(ctx context.Context) (*model.FailoverRecord, error)

	// Close releases the journal backend
	Close() error
}

// etcdClient implements JournalRepository on top of etcd
type etcdClient struct {
	client *clientv3.Client
	logger *slog.Logger
}

// NewJournalRepository creates the journal configured by cfg.
// Without etcd endpoints an in-process journal is returned.
func NewJournalRepository(cfg config.JournalConfig, logger *slog.Logger) (JournalRepository, error) {
	if !cfg.Enabled() {
		logger.Info("failover journal uses process memory, no etcd endpoints configured")
		return NewMemoryJournal(), nil
	}

	return NewEtcdRepository(cfg, logger)
}

// NewEtcdRepository creates a new etcd-backed journal
func NewEtcdRepository(cfg config.JournalConfig, logger *slog.Logger) (JournalRepository, error) {
	etcdCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	}

	// Configure TLS if provided
	if cfg.TLS != nil {
		tlsConfig, err := util.LoadTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		etcdCfg.TLS = tlsConfig
	}

	client, err := clientv3.New(etcdCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	_, err = client.Status(ctx, cfg.Endpoints[0])
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	logger.Info("connected to etcd cluster", "endpoints", cfg.Endpoints)

	return &etcdClient{
		client: client,
		logger: logger,
	}, nil
}

// WriteFailover stores the record under the last-failover key and a history key in one transaction
func (e *etcdClient) WriteFailover(ctx context.Context, record *model.FailoverRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failover record: %w", err)
	}

	historyKey := keyFailoverHistoryPrefix + strconv.FormatInt(record.RequestedAt.UnixNano(), 10)

	_, err = e.client.Txn(ctx).Then(
		clientv3.OpPut(keyLastFailover, string(data)),
		clientv3.OpPut(historyKey, string(data)),
	).Commit()
	if err != nil {
		return fmt.Errorf("failed to write failover record to etcd: %w", err)
	}

	e.logger.Debug("wrote failover record to etcd",
		"requested_by", record.RequestedBy,
		"success", record.Success)

	return nil
}

// ReadLastFailover reads the most recent failover record from etcd
func (e *etcdClient) ReadLastFailover(ctx context.Context) (*model.FailoverRecord, error) {
	resp, err := e.client.Get(ctx, keyLastFailover)
	if err != nil {
		return nil, fmt.Errorf("failed to read failover record from etcd: %w", err)
	}

	if len(resp.Kvs) == 0 {
		return nil, ErrNoFailoverRecord
	}

	var record model.FailoverRecord
	if err := json.Unmarshal(resp.Kvs[0].Value, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failover record: %w", err)
	}

	return &record, nil
}

// Close closes the etcd client connection
func (e *etcdClient) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// memoryJournal keeps failover records for the lifetime of the process
type memoryJournal struct {
	mu      sync.RWMutex
	records []model.FailoverRecord
}

// NewMemoryJournal creates an in-process journal
func NewMemoryJournal() JournalRepository {
	return &memoryJournal{}
}

func (m *memoryJournal) WriteFailover(_ context.Context, record *model.FailoverRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, *record)
	return nil
}

func (m *memoryJournal) ReadLastFailover(_ context.Context) (*model.FailoverRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return nil, ErrNoFailoverRecord
	}

	last := m.records[len(m.records)-1]
	return &last, nil
}

func (m *memoryJournal) Close() error {
	return nil
}

// journalTimeout bounds every journal call
const journalTimeout = 3 * time.Second

// WithJournalTimeout derives a bounded context for journal calls
func WithJournalTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, journalTimeout)
}
