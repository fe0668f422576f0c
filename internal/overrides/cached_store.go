package overrides

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/2beens/wodcycle/internal/telemetry/metrics"

	"cloud.google.com/go/civil"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Store = (*CachedStore)(nil)

// marks a date that is known to have no override
var absentMarker = []byte("-")

// CachedStore is a read-through cache in front of another Store. Writes go
// straight to the backing store and evict the date from the cache. Failed
// reads are never cached.
//
// Every write bumps the date's version. A read only fills the cache if the
// version it saw before hitting the backing store is still current, so a
// slow read cannot cache a value an operator has since replaced.
type CachedStore struct {
	backing       Store
	cache         *freecache.Cache
	expirySeconds int
	metrics       *metrics.Manager

	mutex    sync.Mutex
	versions map[civil.Date]uint64
}

func NewCachedStore(backing Store, ttl time.Duration, metricsManager *metrics.Manager) *CachedStore {
	megabyte := 1024 * 1024
	cacheSize := 8 * megabyte

	return &CachedStore{
		backing:       backing,
		cache:         freecache.NewCache(cacheSize),
		expirySeconds: expirySeconds(ttl),
		metrics:       metricsManager,
		versions:      make(map[civil.Date]uint64),
	}
}

// freecache counts expiry in whole seconds and treats 0 as "never expires"
func expirySeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int(math.Ceil(ttl.Seconds()))
}

func (s *CachedStore) version(date civil.Date) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.versions[date]
}

func (s *CachedStore) invalidate(date civil.Date) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.versions[date]++
	s.cache.Del(cacheKey(date))
}

func (s *CachedStore) fill(date civil.Date, seen uint64, value []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.versions[date] != seen {
		log.Debugf("override for %s changed during read, not caching", date)
		return
	}
	if err := s.cache.Set(cacheKey(date), value, s.expirySeconds); err != nil {
		log.Warnf("set override cache for %s: %s", date, err)
	}
}

func cacheKey(date civil.Date) []byte {
	return []byte("override::" + date.String())
}

func (s *CachedStore) Get(ctx context.Context, date civil.Date) (*ManualOverride, error) {
	if cached, err := s.cache.Get(cacheKey(date)); err == nil {
		if string(cached) == string(absentMarker) {
			s.hit()
			return nil, nil
		}
		var o ManualOverride
		if err := json.Unmarshal(cached, &o); err == nil {
			s.hit()
			return &o, nil
		} else {
			log.Errorf("unmarshal cached override %s: %s", date, err)
		}
	}

	seen := s.version(date)
	o, err := s.backing.Get(ctx, date)
	if err != nil {
		return nil, err
	}

	value := absentMarker
	if o != nil {
		if value, err = json.Marshal(o); err != nil {
			log.Errorf("marshal override %s for cache: %s", date, err)
			return o, nil
		}
	}
	s.fill(date, seen, value)

	return o, nil
}

func (s *CachedStore) Set(ctx context.Context, override ManualOverride) error {
	defer s.invalidate(override.Date)
	return s.backing.Set(ctx, override)
}

func (s *CachedStore) Remove(ctx context.Context, date civil.Date) error {
	defer s.invalidate(date)
	return s.backing.Remove(ctx, date)
}

func (s *CachedStore) List(ctx context.Context, from, to civil.Date) ([]ManualOverride, error) {
	return s.backing.List(ctx, from, to)
}

func (s *CachedStore) hit() {
	if s.metrics != nil {
		s.metrics.CounterOverrideCacheHits.Inc()
	}
}
