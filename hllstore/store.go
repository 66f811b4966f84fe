// Package hllstore persists sketches in Redis and builds sketches from data
// already living there.
//
// Sketches are stored by name, or content-addressed under their own ID so
// identical sets share a key no matter who wrote them. IngestHash summarizes
// an existing Redis hash into a sketch without pulling the data through any
// intermediate representation beyond one HGETALL reply.
package hllstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sketchbits/hllset"
)

// ErrNotFound indicates that no sketch is stored under the requested name.
var ErrNotFound = errors.New("hllstore: sketch not found")

// Store reads and writes sketches through a Redis client. Any
// redis.UniversalClient works: single node, cluster or sentinel.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a store around client. When prefix is non-empty every key is
// namespaced as "prefix:name".
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (st *Store) key(name string) string {
	if st.prefix == "" {
		return name
	}
	return st.prefix + ":" + name
}

// Save serializes the sketch and stores it under name, overwriting any
// previous value.
func (st *Store) Save(ctx context.Context, name string, s *hllset.Sketch) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("hllstore: marshal %q: %w", name, err)
	}
	if err := st.client.Set(ctx, st.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("hllstore: save %q: %w", name, err)
	}
	return nil
}

// SaveByID stores the sketch content-addressed under its ID and returns the
// ID. Writing the same set twice lands on the same key.
func (st *Store) SaveByID(ctx context.Context, s *hllset.Sketch) (string, error) {
	id := s.ID()
	if err := st.Save(ctx, id, s); err != nil {
		return "", err
	}
	return id, nil
}

// Load fetches and deserializes the sketch stored under name. It returns
// ErrNotFound when the key does not exist.
func (st *Store) Load(ctx context.Context, name string) (*hllset.Sketch, error) {
	data, err := st.client.Get(ctx, st.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("hllstore: load %q: %w", name, err)
	}
	s, err := hllset.UnmarshalBinary(data)
	if err != nil {
		return nil, fmt.Errorf("hllstore: load %q: %w", name, err)
	}
	return s, nil
}

// Delete removes the sketch stored under name. It returns ErrNotFound when
// there was nothing to remove.
func (st *Store) Delete(ctx context.Context, name string) error {
	n, err := st.client.Del(ctx, st.key(name)).Result()
	if err != nil {
		return fmt.Errorf("hllstore: delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// IngestHash reads the Redis hash at hashKey (not namespaced by the store
// prefix) and inserts every field name and every value into the sketch as
// separate elements. It fails when the hash is missing or empty, leaving the
// sketch unchanged.
func (st *Store) IngestHash(ctx context.Context, hashKey string, s *hllset.Sketch) error {
	records, err := st.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return fmt.Errorf("hllstore: ingest %q: %w", hashKey, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("hllstore: ingest %q: hash is missing or empty", hashKey)
	}
	AddRecords(s, records)
	return nil
}

// AddRecords flattens a field/value map into the sketch, inserting both the
// field names and the values. Insertion order does not matter, so map
// iteration order is irrelevant.
func AddRecords(s *hllset.Sketch, records map[string]string) {
	for field, value := range records {
		s.InsertString(field)
		s.InsertString(value)
	}
}
