// Package idgen generates the business numbers stamped on ledger entries,
// reservations and redemptions. IDs come from a snowflake-style generator:
// 41 bits of millisecond timestamp, 10 bits of worker ID, 12 bits of
// per-millisecond sequence. Numbers are unique, roughly sortable and do
// not leak row counts.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	epoch          = int64(1704067200000) // 2024-01-01 00:00:00 UTC
	workerIDBits   = 10
	sequenceBits   = 12
	maxWorkerID    = -1 ^ (-1 << workerIDBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

// Snowflake is a mutex-guarded snowflake ID generator.
type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	workerID  int64
	sequence  int64
}

var (
	defaultGenerator *Snowflake
	once             sync.Once
)

// Init sets up the default generator. Call once at startup.
func Init(workerID int64) {
	once.Do(func() {
		if workerID < 0 || workerID > maxWorkerID {
			log.Fatal().Int64("worker_id", workerID).Msgf("worker ID must be in [0, %d]", maxWorkerID)
		}
		defaultGenerator = &Snowflake{workerID: workerID}
	})
}

// NextID returns the next ID from the default generator.
func NextID() int64 {
	if defaultGenerator == nil {
		Init(1)
	}
	return defaultGenerator.Generate()
}

// Generate returns the next ID.
func (s *Snowflake) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// sequence exhausted for this millisecond, spin to the next one
			for now <= s.timestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}

	s.timestamp = now

	return ((now - epoch) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}

func numbered(prefix string) string {
	id := NextID()
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%08d", prefix, timestamp, id%100000000)
}

// GenerateReservationNo returns a merch reservation number, e.g.
// RSV20240115143052_12345678.
func GenerateReservationNo() string {
	return numbered("RSV")
}

// GenerateRedemptionNo returns a prize redemption number.
func GenerateRedemptionNo() string {
	return numbered("CNJ")
}

// GenerateEntryNo returns a points ledger entry number.
func GenerateEntryNo() string {
	return numbered("PTS")
}
