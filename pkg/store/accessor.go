package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tableflip.dev/taskflow/pkg/events"
)

// Accessor is the typed view over a KV for one identity. Reads are tolerant:
// a missing or malformed bucket reads as absent. Every write is followed by
// an event on the bus.
type Accessor struct {
	kv       KV
	bus      *events.Bus
	log      zerolog.Logger
	identity string
}

// NewAccessor wraps kv for the guest identity.
func NewAccessor(kv KV, bus *events.Bus, log zerolog.Logger) *Accessor {
	return &Accessor{kv: kv, bus: bus, log: log, identity: Guest}
}

// ForIdentity returns a copy of a bound to identity.
func (a *Accessor) ForIdentity(identity string) *Accessor {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = Guest
	}
	cp := *a
	cp.identity = identity
	return &cp
}

// Identity is the partition this accessor reads and writes.
func (a *Accessor) Identity() string { return a.identity }

// Bus is the change feed writes are published on.
func (a *Accessor) Bus() *events.Bus { return a.bus }

// Logger is the logger shared with the entity stores.
func (a *Accessor) Logger() zerolog.Logger { return a.log }

// Resolve returns the storage key for k under this identity.
func (a *Accessor) Resolve(k Key) string { return k.For(a.identity) }

// Raw returns the bucket bytes, or nil when missing, unreadable, empty or
// JSON null.
func (a *Accessor) Raw(k Key) []byte {
	key := a.Resolve(k)
	val, err := a.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Warn().Err(err).Str("key", key).Msg("bucket unreadable")
		}
		return nil
	}
	trimmed := bytes.TrimSpace(val)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}

// Has reports whether k holds any data.
func (a *Accessor) Has(k Key) bool {
	return a.Raw(k) != nil
}

// Decode unmarshals k into v, reporting false when the bucket is absent or
// malformed.
func (a *Accessor) Decode(k Key, v any) bool {
	raw := a.Raw(k)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		a.log.Debug().Err(err).Str("key", a.Resolve(k)).Msg("malformed bucket treated as absent")
		return false
	}
	return true
}

// Put stores v as JSON under k and publishes the change.
func (a *Accessor) Put(k Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", k.Name, err)
	}
	key := a.Resolve(k)
	if err := a.kv.Put(key, data); err != nil {
		return err
	}
	a.bus.Publish(events.Event{Topic: k.Topic, Key: key})
	return nil
}

// Delete removes k and publishes the change.
func (a *Accessor) Delete(k Key) error {
	key := a.Resolve(k)
	if err := a.kv.Delete(key); err != nil {
		return err
	}
	a.bus.Publish(events.Event{Topic: k.Topic, Key: key})
	return nil
}

// Keys lists every stored key across identities.
func (a *Accessor) Keys(ctx context.Context) ([]string, error) {
	return a.kv.Keys(ctx)
}

// Load decodes k into a T, returning fallback when absent or malformed.
func Load[T any](a *Accessor, k Key, fallback T) T {
	var v T
	if !a.Decode(k, &v) {
		return fallback
	}
	return v
}
