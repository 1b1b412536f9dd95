package kvRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion tags every persisted envelope. Bump it when a stored shape
// changes incompatibly; older envelopes are then treated as absent.
const SchemaVersion = 1

var (
	// ErrNotFound is returned when no value is stored under the key.
	ErrNotFound = errors.New("kv: key not found")
	// ErrVersionMismatch is returned when the stored envelope carries another schema version.
	ErrVersionMismatch = errors.New("kv: stored schema version mismatch")
)

// Store is the persistence port for drafts and console UI state.
type Store interface {
	// Get decodes the value under key into dst.
	Get(ctx context.Context, key string, dst interface{}) error
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return json.Marshal(envelope{Version: SchemaVersion, Data: data})
}

func decode(raw []byte, dst interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Version != SchemaVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, env.Version, SchemaVersion)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}
