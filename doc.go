// Package respkv provides a minimal RESP-compatible key-value server and
// client. It speaks the Redis wire format for three commands: PING, GET and
// SET, and interoperates with standard-conformant clients and servers for
// those commands.
//
// The root package is a facade over the building blocks: the protocol
// package holds the wire codec, storage the synchronized in-memory store,
// server the connection dispatch loop and client the request/response
// session.
//
// Basic usage:
//
//	kv, err := respkv.New(
//		respkv.WithListenAddr(":6380"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := kv.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer kv.Close()
//
//	c, err := client.Dial(kv.Addr())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//	c.Set([]byte("mykey"), []byte("myvalue"))
//
// Each connection is served by its own goroutine; the store serializes
// concurrent access internally. A session itself is strictly sequential:
// one request, one reply.
package respkv
