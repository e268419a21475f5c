package memory

import (
	"time"

	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/pkg/scan"

	"github.com/patrickmn/go-cache"
)

type scanSessionRepository struct {
	cache *cache.Cache
}

// NewScanSessionRepository keeps sessions in memory. Each Get slides the
// expiry forward by ttl; onExpire (optional) runs when a session is evicted.
func NewScanSessionRepository(ttl time.Duration, onExpire func(sessionID string)) contract.IScanSessionRepository {
	c := cache.New(ttl, ttl/4+time.Minute)
	if onExpire != nil {
		c.OnEvicted(func(id string, _ interface{}) { onExpire(id) })
	}
	return &scanSessionRepository{cache: c}
}

func (r *scanSessionRepository) Save(session *scan.Session) {
	r.cache.Set(session.ID(), session, cache.DefaultExpiration)
}

func (r *scanSessionRepository) Get(sessionID string) (*scan.Session, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*scan.Session)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (r *scanSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *scanSessionRepository) Count() int {
	return r.cache.ItemCount()
}
