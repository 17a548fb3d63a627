// Package storage provides the in-memory key-value store consulted by the
// respkv server.
//
// The store is sharded by key hash and every shard carries its own lock, so
// GET and SET calls from concurrent sessions serialize only when they touch
// the same shard. No multi-key atomicity is provided and data lives for the
// process lifetime only.
//
// Basic usage:
//
//	store := storage.NewMemory()
//	store.Set("key", []byte("value"))
//	value, exists := store.Get("key")
package storage
