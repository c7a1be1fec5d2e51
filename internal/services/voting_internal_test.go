package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spainrp/awards/internal/logger"
)

func TestLock_SerializesAndReleasesEntries(t *testing.T) {
	s := NewVotingService(logger.Nop(), nil, nil, nil, nil, nil, nil, VotingOptions{})

	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.lock("100")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, s.locks)
}

func TestLock_DistinctUsersDoNotBlock(t *testing.T) {
	s := NewVotingService(logger.Nop(), nil, nil, nil, nil, nil, nil, VotingOptions{})

	unlockA := s.lock("a")
	unlockB := s.lock("b")
	assert.Len(t, s.locks, 2)

	unlockA()
	unlockB()
	assert.Empty(t, s.locks)
}
