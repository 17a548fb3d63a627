package protocol

import (
	"bufio"
	"bytes"
	"io"
)

const (
	// CRLF is the RESP line terminator
	CRLF = "\r\n"

	// maxBulkSize is the maximum size for bulk strings (512MB)
	maxBulkSize = 512 * 1024 * 1024

	// maxArraySize is the maximum number of elements in an array
	maxArraySize = 1024 * 1024
)

var crlfBytes = []byte(CRLF)

// Reader is a streaming RESP reader. It consumes exactly one frame per call
// and never reads past the terminating CRLF of the current frame, so a
// subsequent frame already buffered on the transport stays intact.
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a new streaming RESP reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br: bufio.NewReader(r),
	}
}

// ReadNext reads the next RESP value from the stream. A clean close before
// the first byte of a frame returns io.EOF; a close anywhere inside a frame
// returns ErrUnexpectedEOF.
func (r *Reader) ReadNext() (Value, error) {
	typeByte, err := r.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.EOF
		}
		return Value{}, err
	}

	switch ValueType(typeByte) {
	case TypeSimpleString:
		return r.readLineValue(TypeSimpleString)
	case TypeError:
		return r.readLineValue(TypeError)
	case TypeInteger:
		return r.readInteger()
	case TypeBulkString:
		return r.readBulkString()
	case TypeArray:
		return r.readArray()
	default:
		return Value{}, errUnknownTypeTag("%c (0x%02x)", typeByte, typeByte)
	}
}

// ReadCommand reads one request frame and parses it into a Command. The
// frame must be a non-empty array of bulk strings.
func (r *Reader) ReadCommand() (*Command, error) {
	value, err := r.ReadNext()
	if err != nil {
		return nil, err
	}
	return ParseCommand(value)
}

// readLineValue reads a simple string or error value
func (r *Reader) readLineValue(t ValueType) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	return Value{
		Type: t,
		Data: line,
	}, nil
}

// readInteger reads an integer value
func (r *Reader) readInteger() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}

	integer, err := parseInt64(line)
	if err != nil {
		return Value{}, errMalformedLength("invalid integer: %q", line)
	}

	return Value{
		Type:    TypeInteger,
		Integer: integer,
	}, nil
}

// readBulkString reads a bulk string value
func (r *Reader) readBulkString() (Value, error) {
	length, err := r.readLength("bulk string", maxBulkSize)
	if err != nil {
		return Value{}, err
	}

	// $-1 is the null bulk string, distinct from $0
	if length == -1 {
		return Value{
			Type:   TypeBulkString,
			IsNull: true,
		}, nil
	}

	// Content is length-prefixed, so any byte value is fine in here
	data := make([]byte, length)
	if _, err := io.ReadFull(r.br, data); err != nil {
		return Value{}, errUnexpectedEOF("bulk string content: %v", err)
	}

	if err := r.expectCRLF(); err != nil {
		return Value{}, err
	}

	return Value{
		Type: TypeBulkString,
		Data: data,
	}, nil
}

// readArray reads an array value
func (r *Reader) readArray() (Value, error) {
	length, err := r.readLength("array", maxArraySize)
	if err != nil {
		return Value{}, err
	}

	if length == -1 {
		return Value{
			Type:   TypeArray,
			IsNull: true,
		}, nil
	}

	array := make([]Value, length)
	for i := int64(0); i < length; i++ {
		value, err := r.ReadNext()
		if err != nil {
			if err == io.EOF {
				return Value{}, errUnexpectedEOF("array truncated after %d of %d elements", i, length)
			}
			return Value{}, err
		}
		array[i] = value
	}

	return Value{
		Type:  TypeArray,
		Array: array,
	}, nil
}

// readLength reads a CRLF-terminated length line and validates it. Returns
// -1 for the null marker, otherwise a non-negative count within limits.
func (r *Reader) readLength(what string, limit int64) (int64, error) {
	line, err := r.readLine()
	if err != nil {
		return 0, err
	}

	if len(line) == 2 && line[0] == '-' && line[1] == '1' {
		return -1, nil
	}

	length, err := parseInt64(line)
	if err != nil || length < 0 {
		return 0, errMalformedLength("invalid %s length: %q", what, line)
	}

	if length > limit {
		return 0, errMalformedLength("%s length %d exceeds limit", what, length)
	}

	return length, nil
}

// parseInt64 parses an int64 from a byte slice without allocation
func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errMalformedLength("empty integer")
	}

	var neg bool
	var i int

	switch b[0] {
	case '-':
		neg = true
		i = 1
	case '+':
		i = 1
	}

	if i >= len(b) {
		return 0, errMalformedLength("sign without digits")
	}

	var n int64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, errMalformedLength("non-digit byte 0x%02x", b[i])
		}

		if n > (1<<63-1)/10 {
			return 0, errMalformedLength("integer overflow")
		}

		n = n*10 + int64(b[i]-'0')
	}

	if neg {
		return -n, nil
	}
	return n, nil
}

// readLine reads a line terminated by CRLF and returns it without the
// terminator. Bare LF is rejected.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		if err == io.EOF {
			return nil, errUnexpectedEOF("stream closed mid-line")
		}
		return nil, err
	}

	if len(line) < 2 || !bytes.HasSuffix(line, crlfBytes) {
		return nil, errTerminatorMismatch("line %q not CRLF-terminated", line)
	}

	return line[:len(line)-2], nil
}

// expectCRLF reads and validates the CRLF after bulk string content
func (r *Reader) expectCRLF() error {
	crlf := make([]byte, 2)
	if n, err := io.ReadFull(r.br, crlf); err != nil {
		return errUnexpectedEOF("CRLF terminator (read %d/2 bytes)", n)
	}

	if !bytes.Equal(crlf, crlfBytes) {
		return errTerminatorMismatch("expected [13 10], got [%d %d]", crlf[0], crlf[1])
	}

	return nil
}
