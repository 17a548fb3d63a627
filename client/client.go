package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rethab/respkv/protocol"
)

var (
	// ErrUnexpectedReply indicates the server answered with a reply shape
	// the issued command does not define
	ErrUnexpectedReply = errors.New("unexpected reply shape")

	// ErrBrokenConnection indicates a previous request failed mid-stream,
	// leaving the transport in an undefined state. The client must be
	// closed, not reused.
	ErrBrokenConnection = errors.New("connection is broken, close and redial")
)

// ReplyError is an application-level error reply sent by the server, e.g.
// for an unknown command. The transport stays usable after one of these.
type ReplyError string

// Error implements the error interface
func (e ReplyError) Error() string {
	return string(e)
}

// Client is a blocking RESP client session over one connection. It drives
// exactly one request at a time: serialize, write, read one reply. It is
// not safe for concurrent use; give each goroutine its own Client.
type Client struct {
	conn   net.Conn
	reader *protocol.Reader
	writer *protocol.Writer

	timeout time.Duration
	broken  bool
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets a per-request deadline on the underlying connection.
// Zero (the default) means requests block until the peer answers.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Dial connects to a respkv server at addr
func Dial(addr string, opts ...Option) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return New(conn, opts...), nil
}

// DialTimeout connects to a respkv server with a connect timeout
func DialTimeout(addr string, timeout time.Duration, opts ...Option) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return New(conn, opts...), nil
}

// New wraps an established connection. The client takes ownership of the
// connection for its lifetime.
func New(conn net.Conn, opts ...Option) *Client {
	c := &Client{
		conn:   conn,
		reader: protocol.NewReader(conn),
		writer: protocol.NewWriter(conn),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command and reads exactly one reply. Error replies from the
// server come back as a Value with Type TypeError, not as a Go error; Go
// errors mean the exchange itself failed and the connection is no longer
// usable.
func (c *Client) Do(args ...[]byte) (protocol.Value, error) {
	if c.broken {
		return protocol.Value{}, ErrBrokenConnection
	}

	if c.timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if err := c.writer.WriteCommand(args...); err != nil {
		if errors.Is(err, protocol.ErrEmptyCommand) {
			// Nothing hit the wire; the connection is still fine
			return protocol.Value{}, err
		}
		c.broken = true
		return protocol.Value{}, err
	}
	if err := c.writer.Flush(); err != nil {
		c.broken = true
		return protocol.Value{}, err
	}

	reply, err := c.reader.ReadNext()
	if err != nil {
		c.broken = true
		return protocol.Value{}, err
	}

	return reply, nil
}

// DoStrings is Do with string arguments
func (c *Client) DoStrings(args ...string) (protocol.Value, error) {
	byteArgs := make([][]byte, len(args))
	for i, arg := range args {
		byteArgs[i] = []byte(arg)
	}
	return c.Do(byteArgs...)
}

// Ping probes the server. Without a message it expects the PONG status;
// with one it expects the message echoed back. The reply text is returned.
func (c *Client) Ping(message ...string) (string, error) {
	args := [][]byte{[]byte("PING")}
	for _, m := range message {
		args = append(args, []byte(m))
	}

	reply, err := c.Do(args...)
	if err != nil {
		return "", err
	}

	switch reply.Type {
	case protocol.TypeSimpleString:
		return string(reply.Data), nil
	case protocol.TypeBulkString:
		if len(message) > 0 && !reply.IsNull {
			return string(reply.Data), nil
		}
		return "", ErrUnexpectedReply
	case protocol.TypeError:
		return "", ReplyError(reply.Err())
	default:
		return "", ErrUnexpectedReply
	}
}

// Get retrieves the value stored under key. The second return value is
// false when the key does not exist.
func (c *Client) Get(key []byte) ([]byte, bool, error) {
	reply, err := c.Do([]byte("GET"), key)
	if err != nil {
		return nil, false, err
	}

	switch reply.Type {
	case protocol.TypeBulkString:
		if reply.IsNull {
			return nil, false, nil
		}
		return reply.Data, true, nil
	case protocol.TypeError:
		return nil, false, ReplyError(reply.Err())
	default:
		return nil, false, ErrUnexpectedReply
	}
}

// Set stores value under key
func (c *Client) Set(key, value []byte) error {
	reply, err := c.Do([]byte("SET"), key, value)
	if err != nil {
		return err
	}

	switch {
	case reply.Type == protocol.TypeSimpleString && string(reply.Data) == "OK":
		return nil
	case reply.Type == protocol.TypeError:
		return ReplyError(reply.Err())
	default:
		return ErrUnexpectedReply
	}
}
