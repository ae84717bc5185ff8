package api

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"
)

type download struct {
	content   *bytes.Buffer
	filename  string
	expiresAt time.Time
}

// downloadStore hands out expiring tokens for rendered export files so
// browsers can fetch them with a plain GET.
type downloadStore struct {
	mu    sync.Mutex
	items map[string]download
}

func newDownloadStore() *downloadStore {
	return &downloadStore{items: make(map[string]download)}
}

func (s *downloadStore) put(content *bytes.Buffer, filename string, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token := uuid.NewString()
	s.items[token] = download{
		content:   content,
		filename:  filename,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) take(token string) (download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return download{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
