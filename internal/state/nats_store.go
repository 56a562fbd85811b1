package state

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/tinypub/internal/logfields"
)

const (
	backendNATS        = "nats"
	natsSetupTimeout   = 10 * time.Second
	natsConnectTimeout = 5 * time.Second
)

// NATSStore keeps records in a JetStream key-value bucket so several build
// hosts can share state.
type NATSStore struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

// NewNATSStore connects to url and opens bucket, creating it when missing.
func NewNATSStore(ctx context.Context, url, bucket string) (*NATSStore, error) {
	conn, err := nats.Connect(url, nats.Name("tinypub"), nats.Timeout(natsConnectTimeout))
	if err != nil {
		return nil, unavailableError(backendNATS, "open", fmt.Errorf("failed to connect to NATS: %w", err))
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, storeError(backendNATS, "open", fmt.Errorf("failed to create JetStream context: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, natsSetupTimeout)
	defer cancel()

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "tinypub build state",
			History:     1,
		})
		if err != nil {
			conn.Close()
			return nil, storeError(backendNATS, "open", fmt.Errorf("failed to create KV bucket: %w", err))
		}
		slog.Info("Created KV bucket for build state", logfields.Backend(backendNATS), slog.String("bucket", bucket))
	}

	return &NATSStore{conn: conn, kv: kv, bucket: bucket}, nil
}

// encodeKey maps arbitrary record keys onto the restricted NATS key alphabet.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeKey(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Get implements Store.
func (s *NATSStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, false, nil
		}
		return nil, false, storeError(backendNATS, "get", err)
	}
	return entry.Value(), true, nil
}

// Put implements Store.
func (s *NATSStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.kv.Put(ctx, encodeKey(key), value); err != nil {
		return storeError(backendNATS, "put", err)
	}
	return nil
}

// Delete implements Store.
func (s *NATSStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, encodeKey(key)); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return storeError(backendNATS, "delete", err)
	}
	return nil
}

// Keys implements Store.
func (s *NATSStore) Keys(ctx context.Context) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, storeError(backendNATS, "keys", err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for encoded := range lister.Keys() {
		key, err := decodeKey(encoded)
		if err != nil {
			slog.Warn("Ignoring foreign key in state bucket", logfields.Backend(backendNATS), slog.String("key", encoded))
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Backend implements Store.
func (s *NATSStore) Backend() string { return backendNATS }

// Close implements Store.
func (s *NATSStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
