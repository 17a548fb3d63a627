// Package protocol implements the RESP wire format used between the respkv
// client and server.
//
// Requests are arrays of bulk strings; replies are one of simple string,
// error, integer, bulk string or the null bulk string. Content bytes are
// length-prefixed, never delimiter-scanned, so keys and values may contain
// any byte including CR, LF and NUL.
//
// Basic usage:
//
//	reader := protocol.NewReader(conn)
//	for {
//		value, err := reader.ReadNext()
//		if err != nil {
//			break
//		}
//		// Process value
//	}
//
// Parse failures are distinguished by kind (ErrMalformedLength,
// ErrUnexpectedEOF, ErrUnknownTypeTag, ErrTerminatorMismatch) and can be
// tested with errors.Is. They are never ambiguous: a failed parse leaves the
// stream position undefined and the connection should be closed.
package protocol
