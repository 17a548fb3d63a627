package server

import (
	"fmt"

	"github.com/rethab/respkv/protocol"
)

// verb is the closed set of operations the server understands. The verb is
// decided once when the request is parsed; the dispatch loop never compares
// command names again.
type verb int

const (
	verbPing verb = iota
	verbGet
	verbSet
	verbUnknown
)

// request is a fully validated command ready for dispatch
type request struct {
	verb    verb
	key     []byte
	value   []byte
	message []byte // optional PING echo payload
	echo    bool
}

// commandError is an application-level failure. It travels to the client as
// a normal error reply, never as a connection fault.
type commandError string

func (e commandError) Error() string {
	return string(e)
}

func errUnknownCommand(name string) error {
	return commandError(fmt.Sprintf("unknown command '%s'", name))
}

func errWrongArity(name string) error {
	return commandError(fmt.Sprintf("wrong number of arguments for '%s' command", name))
}

// parseRequest maps a decoded command onto the closed verb set and enforces
// per-verb arity. The returned error, if any, is a commandError carrying the
// exact reply text.
func parseRequest(cmd *protocol.Command) (request, error) {
	switch cmd.Name {
	case "PING":
		switch len(cmd.Args) {
		case 0:
			return request{verb: verbPing}, nil
		case 1:
			return request{verb: verbPing, message: cmd.Args[0], echo: true}, nil
		default:
			return request{}, errWrongArity(cmd.Name)
		}

	case "GET":
		if len(cmd.Args) != 1 {
			return request{}, errWrongArity(cmd.Name)
		}
		return request{verb: verbGet, key: cmd.Args[0]}, nil

	case "SET":
		if len(cmd.Args) != 2 {
			return request{}, errWrongArity(cmd.Name)
		}
		return request{verb: verbSet, key: cmd.Args[0], value: cmd.Args[1]}, nil

	default:
		return request{}, errUnknownCommand(cmd.Name)
	}
}
