// Package lock serializes reconciliation and bed operations per patient and per bed.
package lock

import (
	"context"
	"sort"
)

// Locker exclusive locks on named keys. Lock acquires every key (sorted, so
// concurrent callers cannot deadlock) or none; the returned func releases them.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// PatientKey lock key of a patient identity
func PatientKey(rut string) string { return "patient:" + rut }

// BedKey lock key of a physical bed ("501-2")
func BedKey(slotKey string) string { return "bed:" + slotKey }

func sortedUnique(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	n := 0
	for i, k := range out {
		if i > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}
