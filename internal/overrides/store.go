package overrides

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"
)

// Store keeps the sparse date -> override map. Get returns (nil, nil) when a
// date has no override. Remove returns ErrOverrideNotFound for such dates.
// List returns the overrides in [from, to], ascending by date.
type Store interface {
	Get(ctx context.Context, date civil.Date) (*ManualOverride, error)
	Set(ctx context.Context, override ManualOverride) error
	Remove(ctx context.Context, date civil.Date) error
	List(ctx context.Context, from, to civil.Date) ([]ManualOverride, error)
}

func inRange(d, from, to civil.Date) bool {
	return !d.Before(from) && !d.After(to)
}

func sortByDate(list []ManualOverride) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
}
