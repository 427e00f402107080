package app

import (
	"encoding/json"
	"sort"

	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// bucket is an editable view of one stored collection that keeps whatever
// layout it found on disk, except that a legacy array under a day-map key is
// moved under today's date.
type bucket struct {
	key   store.Key
	list  []any
	days  map[string]any
	dirty bool
}

func openBucket(a *store.Accessor, k store.Key, today string) *bucket {
	b := &bucket{key: k}
	var v any
	if raw := a.Raw(k); raw != nil {
		_ = json.Unmarshal(raw, &v)
	}
	switch t := v.(type) {
	case []any:
		if k.Layout == store.DayMap {
			b.days = map[string]any{today: t}
			b.dirty = true
		} else {
			b.list = t
		}
	case map[string]any:
		b.days = t
	default:
		if k.Layout == store.DayMap {
			b.days = map[string]any{}
		}
	}
	return b
}

// openCurrent opens the bucket readers use for a first-with-data family:
// the primary key when it exists, else the first legacy key holding data,
// re-keyed to the primary so the next save moves it forward.
func openCurrent(a *store.Accessor, keys []store.Key, today string) *bucket {
	primary := keys[0]
	for _, k := range keys {
		if !a.Has(k) {
			continue
		}
		b := openBucket(a, k, today)
		if k != primary {
			b.key = primary
			b.dirty = true
		}
		return b
	}
	return openBucket(a, primary, today)
}

func (b *bucket) isDayMap() bool { return b.days != nil }

// visit calls fn on every record. fn returns whether to drop the record and
// whether it changed it.
func (b *bucket) visit(fn func(day string, m record.Raw) (drop, changed bool)) (hits int) {
	filter := func(day string, items []any) []any {
		out := items[:0:0]
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				out = append(out, item)
				continue
			}
			drop, changed := fn(day, m)
			if drop || changed {
				hits++
				b.dirty = true
			}
			if !drop {
				out = append(out, m)
			}
		}
		return out
	}
	if !b.isDayMap() {
		b.list = filter("", b.list)
		return hits
	}
	days := make([]string, 0, len(b.days))
	for day := range b.days {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	for _, day := range days {
		if items, ok := b.days[day].([]any); ok {
			b.days[day] = filter(day, items)
		}
	}
	return hits
}

// prepend adds m as the newest record, under day for day maps.
func (b *bucket) prepend(day string, m record.Raw) {
	b.dirty = true
	if !b.isDayMap() {
		b.list = append([]any{m}, b.list...)
		return
	}
	items, _ := b.days[day].([]any)
	b.days[day] = append([]any{m}, items...)
}

func (b *bucket) save(a *store.Accessor) error {
	if !b.dirty {
		return nil
	}
	var err error
	if b.isDayMap() {
		err = a.Put(b.key, b.days)
	} else {
		if b.list == nil {
			b.list = []any{}
		}
		err = a.Put(b.key, b.list)
	}
	if err == nil {
		b.dirty = false
	}
	return err
}

// idOf reads a record id from any encoding.
func idOf(m record.Raw) string {
	return record.Str(m["id"])
}
