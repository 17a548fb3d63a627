// Package server provides the RESP server side of respkv.
//
// Each accepted connection is served by its own goroutine running a strict
// decode/dispatch/encode loop over the protocol package. The server answers
// PING, GET and SET against an injected Store; anything else gets an error
// reply on the normal reply channel.
//
// The server is compatible with standard Redis clients such as
// github.com/redis/go-redis for the supported commands.
package server
