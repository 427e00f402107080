// Package info reports where taskflow keeps its data.
package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"tableflip.dev/taskflow/pkg/store"
)

// ConfigPathEnv overrides the configuration directory.
const ConfigPathEnv = "TASKFLOW_CONFIG_PATH"

type Info struct {
	Config   store.Config
	KV       store.KV
	Identity string
	Out      io.Writer
}

// Bucket is one stored key and the catalog entry it belongs to.
type Bucket struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

// Buckets lists every stored key, sorted.
func (n *Info) Buckets(ctx context.Context) ([]Bucket, error) {
	if n.KV == nil {
		return nil, fmt.Errorf("failed to open the store")
	}
	keys, err := n.KV.Keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		b := Bucket{Key: k}
		if c, ok := store.Lookup(k); ok {
			b.Name, b.Known = c.Name, true
		}
		out = append(out, b)
	}
	return out, nil
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	if override := os.Getenv(ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintln(out, ConfigPathEnv, "found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, ConfigPathEnv, "env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = store.LoadConfig(); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.store:", n.Config.Backend())
	identity := n.Identity
	if identity == "" {
		identity = store.Guest
	}
	_, _ = fmt.Fprintln(out, "Identity:", identity)

	buckets, err := n.Buckets(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Buckets:")
	for _, b := range buckets {
		if b.Known {
			_, _ = fmt.Fprintf(out, "  %s  (%s)\n", b.Key, b.Name)
		} else {
			_, _ = fmt.Fprintf(out, "  %s\n", b.Key)
		}
	}
	if len(buckets) == 0 {
		_, _ = fmt.Fprintln(out, "  no buckets")
	}
	return nil
}
