package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rethab/respkv/protocol"
)

// Store is the key-value collaborator consulted by GET and SET. It must
// serialize concurrent calls internally.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Logger receives server events. Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// noopLogger discards everything
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Server accepts connections and answers PING, GET and SET over RESP
type Server struct {
	store Store

	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       Logger

	// Connection management
	listener net.Listener
	clients  sync.Map // map[net.Conn]*client

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	mu           sync.RWMutex
	connCount    int64
	commandCount int64
	errorCount   int64
}

// client represents one connected session. It is single-threaded: the
// handle loop fully completes one command before decoding the next.
type client struct {
	id     string
	conn   net.Conn
	reader *protocol.Reader
	writer *protocol.Writer
	server *Server

	lastCmd time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server that listens on addr and serves the given store
func New(addr string, store Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		store:  store,
		addr:   addr,
		logger: noopLogger{},
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetLogger sets the logger used for connection and protocol events
func (s *Server) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetReadTimeout sets a per-command read deadline. Zero means no deadline;
// a stalled peer then blocks its own connection indefinitely.
func (s *Server) SetReadTimeout(d time.Duration) {
	s.readTimeout = d
}

// SetWriteTimeout sets a per-reply write deadline. Zero means no deadline.
func (s *Server) SetWriteTimeout(d time.Duration) {
	s.writeTimeout = d
}

// Start begins listening and accepting connections
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info("server listening", "addr", s.listener.Addr().String())

	s.wg.Add(1)
	go s.acceptConnections()

	return nil
}

// Stop stops the server and closes all client connections
func (s *Server) Stop() error {
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.clients.Range(func(key, value interface{}) bool {
		if c, ok := value.(*client); ok {
			c.close()
		}
		return true
	})

	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stats returns server statistics
func (s *Server) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clientCount := 0
	s.clients.Range(func(key, value interface{}) bool {
		clientCount++
		return true
	})

	return map[string]interface{}{
		"connected_clients": clientCount,
		"total_commands":    s.commandCount,
		"total_errors":      s.errorCount,
		"total_connections": s.connCount,
	}
}

// acceptConnections accepts new client connections
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Error("accept failed", "err", err)
			continue
		}

		s.handleNewClient(conn)
	}
}

// handleNewClient registers a connection and serves it on its own goroutine
func (s *Server) handleNewClient(conn net.Conn) {
	c := s.newClient(conn)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer c.close()
		c.handle()
	}()
}

// ServeConn serves a single established connection until it closes or a
// protocol error terminates it. It blocks; callers wanting concurrency run
// it on their own goroutine. The listener is not involved, so transports
// other than the server's own TCP listener can be bridged in.
func (s *Server) ServeConn(conn net.Conn) {
	c := s.newClient(conn)
	defer c.close()
	c.handle()
}

func (s *Server) newClient(conn net.Conn) *client {
	s.mu.Lock()
	s.connCount++
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(s.ctx)
	c := &client{
		id:      uuid.NewString(),
		conn:    conn,
		reader:  protocol.NewReader(conn),
		writer:  protocol.NewWriter(conn),
		server:  s,
		lastCmd: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.clients.Store(conn, c)
	s.logger.Debug("client connected", "client", c.id, "remote", conn.RemoteAddr())

	return c
}

// close closes the client connection
func (c *client) close() {
	c.cancel()
	c.conn.Close()
	c.server.clients.Delete(c.conn)
}

// handle decodes one command at a time, dispatches it and writes the reply.
// It returns when the peer disconnects or a wire-level decode failure makes
// the stream position undefined.
func (c *client) handle() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if c.server.readTimeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(c.server.readTimeout))
		}

		cmd, err := c.reader.ReadCommand()
		if err != nil {
			if err == io.EOF {
				c.server.logger.Debug("client disconnected", "client", c.id)
				return
			}
			if c.ctx.Err() != nil {
				return
			}

			if errors.Is(err, protocol.ErrInvalidCommand) {
				// The frame itself was well-formed, only its shape
				// was wrong (e.g. *0 or a non-bulk element). Next
				// frame is still readable.
				c.writeError(fmt.Sprintf("protocol error: %v", err))
				continue
			}

			// Wire-level parse failure or transport error: the frame
			// boundary is lost and no resynchronization offset
			// exists, so the connection is done.
			c.server.logger.Error("protocol error, closing connection", "client", c.id, "err", err)
			var protoErr *protocol.Error
			if errors.As(err, &protoErr) {
				c.writeError(fmt.Sprintf("protocol error: %v", protoErr.Kind))
			}
			return
		}

		c.lastCmd = time.Now()
		c.execute(cmd)
	}
}

// execute dispatches a decoded command and writes its reply
func (c *client) execute(cmd *protocol.Command) {
	c.server.mu.Lock()
	c.server.commandCount++
	c.server.mu.Unlock()

	req, err := parseRequest(cmd)
	if err != nil {
		c.writeError(err.Error())
		return
	}

	switch req.verb {
	case verbPing:
		if req.echo {
			c.writeBulkString(req.message)
		} else {
			c.writeStatus("PONG")
		}

	case verbGet:
		value, exists := c.server.store.Get(string(req.key))
		if !exists {
			c.writeNull()
		} else {
			c.writeBulkString(value)
		}

	case verbSet:
		c.server.store.Set(string(req.key), req.value)
		c.writeStatus("OK")
	}
}

// Reply writers

func (c *client) setWriteDeadline() {
	if c.server.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.server.writeTimeout))
	}
}

func (c *client) writeStatus(s string) {
	c.setWriteDeadline()
	c.writer.WriteSimpleString(s)
	c.writer.Flush()
}

func (c *client) writeError(msg string) {
	c.server.mu.Lock()
	c.server.errorCount++
	c.server.mu.Unlock()

	// Error text rides on a CRLF-terminated line; internal line breaks
	// would desynchronize the stream
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")

	c.setWriteDeadline()
	c.writer.WriteError(msg)
	c.writer.Flush()
}

func (c *client) writeBulkString(data []byte) {
	c.setWriteDeadline()
	c.writer.WriteBulkString(data)
	c.writer.Flush()
}

func (c *client) writeNull() {
	c.setWriteDeadline()
	c.writer.WriteNullBulkString()
	c.writer.Flush()
}
