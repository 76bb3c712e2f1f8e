// Package lock implements a Redis SET NX lock. Compound reward operations
// (reserve, redeem, cancel) are serialized per member with it so that a
// member's stock and points always move inside one winner's transaction.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLockFailed = errors.New("could not acquire lock")

// DistributedLock holds one Redis lock key. The value identifies the
// holder so Unlock never deletes a lock acquired by someone else after
// expiry.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts a non-blocking acquire. The expiration guards against
// a holder that never unlocks.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
}

// Lock retries TryLock until it succeeds or maxRetries runs out.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		ok, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock only if this instance still holds it. The
// check-and-delete must be atomic, hence the Lua script.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewMemberLock returns the per-member lock used around reward
// operations. Locking per member keeps unrelated members concurrent while
// serializing one member's own stock/points movements.
func NewMemberLock(client *redis.Client, memberID int64, token string) *DistributedLock {
	key := fmt.Sprintf("rewards:lock:member:%d", memberID)
	return NewDistributedLock(client, key, token, 30*time.Second)
}

// NewRedemptionLock serializes status updates of one redemption.
func NewRedemptionLock(client *redis.Client, redemptionNo, token string) *DistributedLock {
	key := fmt.Sprintf("rewards:lock:redemption:%s", redemptionNo)
	return NewDistributedLock(client, key, token, 30*time.Second)
}

// NewReservationLock serializes confirmation/cancellation of one
// reservation.
func NewReservationLock(client *redis.Client, reservationNo, token string) *DistributedLock {
	key := fmt.Sprintf("rewards:lock:reservation:%s", reservationNo)
	return NewDistributedLock(client, key, token, 30*time.Second)
}
