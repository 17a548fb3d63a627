package protocol_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rethab/respkv/protocol"
)

func TestReaderValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected protocol.Value
	}{
		{
			name:  "simple string",
			input: "+OK\r\n",
			expected: protocol.Value{
				Type: protocol.TypeSimpleString,
				Data: []byte("OK"),
			},
		},
		{
			name:  "pong",
			input: "+PONG\r\n",
			expected: protocol.Value{
				Type: protocol.TypeSimpleString,
				Data: []byte("PONG"),
			},
		},
		{
			name:  "error",
			input: "-unknown command 'FOO'\r\n",
			expected: protocol.Value{
				Type: protocol.TypeError,
				Data: []byte("unknown command 'FOO'"),
			},
		},
		{
			name:  "integer",
			input: ":42\r\n",
			expected: protocol.Value{
				Type:    protocol.TypeInteger,
				Integer: 42,
			},
		},
		{
			name:  "negative integer",
			input: ":-7\r\n",
			expected: protocol.Value{
				Type:    protocol.TypeInteger,
				Integer: -7,
			},
		},
		{
			name:  "bulk string",
			input: "$5\r\nhello\r\n",
			expected: protocol.Value{
				Type: protocol.TypeBulkString,
				Data: []byte("hello"),
			},
		},
		{
			name:  "null bulk string",
			input: "$-1\r\n",
			expected: protocol.Value{
				Type:   protocol.TypeBulkString,
				IsNull: true,
			},
		},
		{
			name:  "empty bulk string",
			input: "$0\r\n\r\n",
			expected: protocol.Value{
				Type: protocol.TypeBulkString,
				Data: []byte(""),
			},
		},
		{
			name:  "bulk string with CR LF NUL content",
			input: "$5\r\na\r\n\x00b\r\n",
			expected: protocol.Value{
				Type: protocol.TypeBulkString,
				Data: []byte("a\r\n\x00b"),
			},
		},
		{
			name:  "null array",
			input: "*-1\r\n",
			expected: protocol.Value{
				Type:   protocol.TypeArray,
				IsNull: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := protocol.NewReader(strings.NewReader(tt.input))
			value, err := reader.ReadNext()
			if err != nil {
				t.Fatalf("ReadNext() error = %v", err)
			}

			if !value.Equal(tt.expected) {
				t.Errorf("value = %#v, want %#v", value, tt.expected)
			}
		})
	}
}

func TestReaderArray(t *testing.T) {
	input := "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n"

	reader := protocol.NewReader(strings.NewReader(input))
	value, err := reader.ReadNext()
	if err != nil {
		t.Fatalf("ReadNext() error = %v", err)
	}

	if value.Type != protocol.TypeArray {
		t.Fatalf("Type = %v, want %v", value.Type, protocol.TypeArray)
	}

	if len(value.Array) != 3 {
		t.Fatalf("Array length = %d, want 3", len(value.Array))
	}

	expectedElements := []string{"SET", "key", "value"}
	for i, expected := range expectedElements {
		if string(value.Array[i].Data) != expected {
			t.Errorf("Array[%d] = %s, want %s", i, string(value.Array[i].Data), expected)
		}
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{
			name:  "unknown type tag",
			input: "%3\r\n",
			kind:  protocol.ErrUnknownTypeTag,
		},
		{
			name:  "non-decimal bulk length",
			input: "$abc\r\n",
			kind:  protocol.ErrMalformedLength,
		},
		{
			name:  "negative bulk length other than -1",
			input: "$-2\r\n",
			kind:  protocol.ErrMalformedLength,
		},
		{
			name:  "non-decimal array count",
			input: "*x\r\n",
			kind:  protocol.ErrMalformedLength,
		},
		{
			name:  "missing CRLF after bulk content",
			input: "$3\r\nfooXY",
			kind:  protocol.ErrTerminatorMismatch,
		},
		{
			name:  "bare LF line terminator",
			input: "+OK\n",
			kind:  protocol.ErrTerminatorMismatch,
		},
		{
			name:  "eof inside bulk content",
			input: "$10\r\nfoo",
			kind:  protocol.ErrUnexpectedEOF,
		},
		{
			name:  "eof inside length line",
			input: "$3",
			kind:  protocol.ErrUnexpectedEOF,
		},
		{
			name:  "eof between array elements",
			input: "*2\r\n$3\r\nfoo\r\n",
			kind:  protocol.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := protocol.NewReader(strings.NewReader(tt.input))
			_, err := reader.ReadNext()
			if err == nil {
				t.Fatal("ReadNext() expected error, got nil")
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestReaderCleanEOF(t *testing.T) {
	reader := protocol.NewReader(strings.NewReader(""))
	_, err := reader.ReadNext()
	if err != io.EOF {
		t.Errorf("ReadNext() on empty stream = %v, want io.EOF", err)
	}
}

func TestNullDistinctFromEmpty(t *testing.T) {
	reader := protocol.NewReader(strings.NewReader("$-1\r\n$0\r\n\r\n"))

	null, err := reader.ReadNext()
	if err != nil {
		t.Fatalf("ReadNext() error = %v", err)
	}
	empty, err := reader.ReadNext()
	if err != nil {
		t.Fatalf("ReadNext() error = %v", err)
	}

	if !null.IsNull {
		t.Error("$-1 should decode as null")
	}
	if empty.IsNull {
		t.Error("$0 should not decode as null")
	}
	if null.Equal(empty) {
		t.Error("null and empty bulk strings must not compare equal")
	}
}

func TestFramingIndependence(t *testing.T) {
	// Two replies back to back: decoding the first must not consume any
	// byte of the second.
	replies := []protocol.Value{
		{Type: protocol.TypeBulkString, Data: []byte("first")},
		{Type: protocol.TypeInteger, Integer: 99},
		{Type: protocol.TypeSimpleString, Data: []byte("OK")},
		{Type: protocol.TypeBulkString, IsNull: true},
	}

	var buf bytes.Buffer
	writer := protocol.NewWriter(&buf)
	for _, reply := range replies {
		if err := writer.WriteValue(reply); err != nil {
			t.Fatalf("WriteValue() error = %v", err)
		}
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	reader := protocol.NewReader(&buf)
	for i, want := range replies {
		got, err := reader.ReadNext()
		if err != nil {
			t.Fatalf("ReadNext() #%d error = %v", i, err)
		}
		if !got.Equal(want) {
			t.Errorf("reply #%d = %#v, want %#v", i, got, want)
		}
	}

	if _, err := reader.ReadNext(); err != io.EOF {
		t.Errorf("expected io.EOF after last reply, got %v", err)
	}
}

func TestWriterOutput(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *protocol.Writer) error
		expected string
	}{
		{
			name:     "simple string",
			write:    func(w *protocol.Writer) error { return w.WriteSimpleString("OK") },
			expected: "+OK\r\n",
		},
		{
			name:     "pong",
			write:    func(w *protocol.Writer) error { return w.WritePONG() },
			expected: "+PONG\r\n",
		},
		{
			name:     "error",
			write:    func(w *protocol.Writer) error { return w.WriteError("wrong number of arguments for 'GET' command") },
			expected: "-wrong number of arguments for 'GET' command\r\n",
		},
		{
			name:     "integer",
			write:    func(w *protocol.Writer) error { return w.WriteInteger(1000) },
			expected: ":1000\r\n",
		},
		{
			name:     "bulk string",
			write:    func(w *protocol.Writer) error { return w.WriteBulkString([]byte("myvalue")) },
			expected: "$7\r\nmyvalue\r\n",
		},
		{
			name:     "empty bulk string",
			write:    func(w *protocol.Writer) error { return w.WriteBulkString(nil) },
			expected: "$0\r\n\r\n",
		},
		{
			name:     "null bulk string",
			write:    func(w *protocol.Writer) error { return w.WriteNullBulkString() },
			expected: "$-1\r\n",
		},
		{
			name:     "command",
			write:    func(w *protocol.Writer) error { return w.WriteCommandStrings("GET", "mykey") },
			expected: "*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := protocol.NewWriter(&buf)
			if err := tt.write(writer); err != nil {
				t.Fatalf("write error = %v", err)
			}
			if err := writer.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("output = %q, want %q", buf.String(), tt.expected)
			}
		})
	}
}

func TestEmptyCommand(t *testing.T) {
	var buf bytes.Buffer
	writer := protocol.NewWriter(&buf)

	err := writer.WriteCommand()
	if !errors.Is(err, protocol.ErrEmptyCommand) {
		t.Errorf("WriteCommand() error = %v, want ErrEmptyCommand", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should have been written, got %q", buf.String())
	}
}

func TestCommandRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		args [][]byte
	}{
		{
			name: "ping",
			args: [][]byte{[]byte("PING")},
		},
		{
			name: "get",
			args: [][]byte{[]byte("GET"), []byte("mykey")},
		},
		{
			name: "set",
			args: [][]byte{[]byte("SET"), []byte("mykey"), []byte("myvalue")},
		},
		{
			name: "binary arguments",
			args: [][]byte{[]byte("SET"), []byte("k\r\ney"), []byte("v\x00al\nue")},
		},
		{
			name: "empty value",
			args: [][]byte{[]byte("SET"), []byte("key"), {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := protocol.NewWriter(&buf)
			if err := writer.WriteCommand(tt.args...); err != nil {
				t.Fatalf("WriteCommand() error = %v", err)
			}
			if err := writer.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}

			cmd, err := protocol.NewReader(&buf).ReadCommand()
			if err != nil {
				t.Fatalf("ReadCommand() error = %v", err)
			}

			if cmd.Name != strings.ToUpper(string(tt.args[0])) {
				t.Errorf("Name = %q, want %q", cmd.Name, strings.ToUpper(string(tt.args[0])))
			}
			if len(cmd.Args) != len(tt.args)-1 {
				t.Fatalf("len(Args) = %d, want %d", len(cmd.Args), len(tt.args)-1)
			}
			for i, arg := range cmd.Args {
				if !bytes.Equal(arg, tt.args[i+1]) {
					t.Errorf("Args[%d] = %q, want %q", i, arg, tt.args[i+1])
				}
			}
		})
	}
}

func TestCommandNameCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	writer := protocol.NewWriter(&buf)
	if err := writer.WriteCommandStrings("get", "mykey"); err != nil {
		t.Fatalf("WriteCommandStrings() error = %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	cmd, err := protocol.NewReader(&buf).ReadCommand()
	if err != nil {
		t.Fatalf("ReadCommand() error = %v", err)
	}
	if cmd.Name != "GET" {
		t.Errorf("Name = %q, want GET", cmd.Name)
	}
	if string(cmd.Args[0]) != "mykey" {
		t.Errorf("argument case must be preserved, got %q", cmd.Args[0])
	}
}

func TestParseCommandRejects(t *testing.T) {
	tests := []struct {
		name  string
		value protocol.Value
	}{
		{
			name:  "empty array",
			value: protocol.Value{Type: protocol.TypeArray},
		},
		{
			name:  "null array",
			value: protocol.Value{Type: protocol.TypeArray, IsNull: true},
		},
		{
			name:  "not an array",
			value: protocol.Value{Type: protocol.TypeSimpleString, Data: []byte("PING")},
		},
		{
			name: "non-bulk verb",
			value: protocol.Value{Type: protocol.TypeArray, Array: []protocol.Value{
				{Type: protocol.TypeInteger, Integer: 1},
			}},
		},
		{
			name: "non-bulk argument",
			value: protocol.Value{Type: protocol.TypeArray, Array: []protocol.Value{
				{Type: protocol.TypeBulkString, Data: []byte("GET")},
				{Type: protocol.TypeInteger, Integer: 1},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := protocol.ParseCommand(tt.value); err == nil {
				t.Error("ParseCommand() expected error, got nil")
			}
		})
	}
}

func TestReplyRoundTrip(t *testing.T) {
	replies := []protocol.Value{
		{Type: protocol.TypeSimpleString, Data: []byte("PONG")},
		{Type: protocol.TypeError, Data: []byte("unknown command 'FOO'")},
		{Type: protocol.TypeInteger, Integer: -1234567890},
		{Type: protocol.TypeBulkString, Data: []byte("with\r\nbinary\x00bytes")},
		{Type: protocol.TypeBulkString, Data: []byte("")},
		{Type: protocol.TypeBulkString, IsNull: true},
		{Type: protocol.TypeArray, Array: []protocol.Value{
			{Type: protocol.TypeBulkString, Data: []byte("nested")},
			{Type: protocol.TypeInteger, Integer: 5},
		}},
	}

	for _, reply := range replies {
		var buf bytes.Buffer
		writer := protocol.NewWriter(&buf)
		if err := writer.WriteValue(reply); err != nil {
			t.Fatalf("WriteValue(%v) error = %v", reply, err)
		}
		if err := writer.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}

		got, err := protocol.NewReader(&buf).ReadNext()
		if err != nil {
			t.Fatalf("ReadNext() error = %v", err)
		}
		if !got.Equal(reply) {
			t.Errorf("round trip = %#v, want %#v", got, reply)
		}
	}
}
