// Package client provides the RESP client side of respkv.
//
// A Client owns one connection and drives one synchronous request/response
// exchange at a time; there is no pipelining. After a wire-level failure the
// transport state is undefined and the client refuses further requests
// until it is closed and a new one is dialed.
//
// Basic usage:
//
//	c, err := client.Dial("localhost:6380")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Set([]byte("mykey"), []byte("myvalue")); err != nil {
//		log.Fatal(err)
//	}
//	value, found, err := c.Get([]byte("mykey"))
package client
