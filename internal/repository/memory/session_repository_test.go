package memory

import (
	"testing"
	"time"

	"warehouse-scan-be/pkg/scan"

	"github.com/stretchr/testify/assert"
)

func TestScanSessionRepository(t *testing.T) {
	var evicted []string
	repo := NewScanSessionRepository(time.Hour, func(id string) { evicted = append(evicted, id) })

	s := scan.NewSession("s-1", scan.Scope{Direction: scan.DirectionIncoming, OperationID: "OP"}, nil, scan.Options{})
	repo.Save(s)

	got, ok := repo.Get("s-1")
	assert.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("s-1")
	_, ok = repo.Get("s-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"s-1"}, evicted)
}

func TestScanSessionRepositoryExpiry(t *testing.T) {
	repo := NewScanSessionRepository(20*time.Millisecond, nil)
	repo.Save(scan.NewSession("s-2", scan.Scope{Direction: scan.DirectionOutgoing}, nil, scan.Options{}))

	time.Sleep(40 * time.Millisecond)
	_, ok := repo.Get("s-2")
	assert.False(t, ok)
}
