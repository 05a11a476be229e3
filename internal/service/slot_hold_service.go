package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another in-flight booking already holds the
// doctor's slot.
var ErrSlotHeld = errors.New("slot is being booked by another request")

// releaseHoldScript frees a hold only if the caller still owns it, so a
// request that lost its hold to TTL expiry cannot delete a newer one.
var releaseHoldScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// slotHoldKeyPrefix namespaces hold keys: slot:hold:<doctor>:<date>:<time>
	slotHoldKeyPrefix = "slot:hold:"

	// slotHoldTTL covers the window between the conflict check and the
	// committed insert. After commit the database row takes over as the
	// source of truth, so the hold is allowed to lapse.
	slotHoldTTL = 10 * time.Second

	// Timeout for individual Redis operations
	slotHoldTimeout = 2 * time.Second
)

// SlotHoldService serializes concurrent bookings for the same
// (doctor, date, time) via an atomic Redis SET NX. Two requests that both
// pass the repository conflict check race here instead of at the insert; the
// loser gets ErrSlotHeld. The partial unique indexes on appointments are the
// backstop if Redis and the database ever disagree.
type SlotHoldService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotHoldService(redisClient *redis.Client, log *logrus.Logger) *SlotHoldService {
	return &SlotHoldService{
		redisClient: redisClient,
		log:         log,
	}
}

// Acquire takes the hold for a slot. The returned token must be passed to
// Release if the booking fails before commit.
func (s *SlotHoldService) Acquire(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, slotHoldTimeout)
	defer cancel()

	token := uuid.New().String()
	key := slotHoldKey(doctorID, date, timeOfDay)

	ok, err := s.redisClient.SetNX(ctx, key, token, slotHoldTTL).Result()
	if err != nil {
		return "", fmt.Errorf("acquire slot hold: %w", err)
	}
	if !ok {
		return "", ErrSlotHeld
	}
	return token, nil
}

// Release compensates a failed booking by freeing the hold early. Failures
// are non-fatal: the hold expires on its own.
func (s *SlotHoldService) Release(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string, token string) {
	ctx, cancel := context.WithTimeout(ctx, slotHoldTimeout)
	defer cancel()

	key := slotHoldKey(doctorID, date, timeOfDay)
	if err := releaseHoldScript.Run(ctx, s.redisClient, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warnf("Failed to release slot hold %s (non-fatal): %+v", key, err)
	}
}

func slotHoldKey(doctorID uuid.UUID, date time.Time, timeOfDay string) string {
	return fmt.Sprintf("%s%s:%s:%s", slotHoldKeyPrefix, doctorID, date.Format("2006-01-02"), timeOfDay)
}
