package respkv

import (
	"sync"

	"github.com/rethab/respkv/server"
	"github.com/rethab/respkv/storage"
)

// KV combines the in-memory store with a RESP server serving it
type KV struct {
	cfg    *config
	store  *storage.MemoryStore
	server *server.Server

	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a KV instance from the given options
func New(opts ...Option) (*KV, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	var storeOpts []storage.Option
	if cfg.shardCount > 0 {
		storeOpts = append(storeOpts, storage.WithShardCount(cfg.shardCount))
	}
	store := storage.NewMemory(storeOpts...)

	srv := server.New(cfg.listenAddr, store)
	srv.SetLogger(&serverLoggerAdapter{logger: cfg.logger})
	srv.SetReadTimeout(cfg.readTimeout)
	srv.SetWriteTimeout(cfg.writeTimeout)

	return &KV{
		cfg:    cfg,
		store:  store,
		server: srv,
	}, nil
}

// Start binds the listener and begins serving connections. It does not
// block; every connection is handled on its own goroutine.
func (kv *KV) Start() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrClosed
	}
	if kv.started {
		return ErrAlreadyStarted
	}

	if err := kv.server.Start(); err != nil {
		return err
	}

	kv.started = true
	return nil
}

// Close stops the server and drops all client connections. The store's
// contents are gone with the process; there is no persistence.
func (kv *KV) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return nil
	}
	kv.closed = true

	if kv.started {
		return kv.server.Stop()
	}
	return nil
}

// Addr returns the address the server is listening on. Useful with
// WithListenAddr("127.0.0.1:0") to learn the chosen port.
func (kv *KV) Addr() string {
	return kv.server.Addr()
}

// Store returns the underlying store, e.g. for seeding test data
func (kv *KV) Store() *storage.MemoryStore {
	return kv.store
}

// Stats returns server statistics
func (kv *KV) Stats() map[string]interface{} {
	return kv.server.Stats()
}
