package locker

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lockHolder is the value stored under a lock key.
type lockHolder struct {
	Token      string    `json:"token"`
	RequestID  string    `json:"request_id,omitempty"`
	AcquiredAt time.Time `json:"acquired_at"`
}

type lockService struct {
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
	now             func() time.Time
}

// NewLockService returns a lock backed by SET NX. Locks serialise timeline
// builds for one session across replicas.
func NewLockService(redisRepository contracts.RedisRepository, logger *zap.Logger) contracts.LockerService {
	return &lockService{
		RedisRepository: redisRepository,
		Log:             logger,
		now:             time.Now,
	}
}

func (s *lockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("lockService.TryLock called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
	)

	holder := lockHolder{
		Token:      uuid.NewString(),
		RequestID:  requestID,
		AcquiredAt: s.now().UTC(),
	}
	acquired, err := s.RedisRepository.TrySetNX(ctx, key, holder, expiration)
	if err != nil {
		s.Log.Error("lockService.TryLock error calling RedisRepository.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, "", err
	}

	if !acquired {
		fields := []zap.Field{
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
		}
		if current, err := s.holder(ctx, key); err == nil && current != nil {
			fields = append(fields,
				zap.String("holder_request_id", current.RequestID),
				zap.Time("holder_acquired_at", current.AcquiredAt),
			)
		}
		s.Log.Info("lockService.TryLock held by another build", fields...)
		return false, "", nil
	}

	return true, holder.Token, nil
}

// Unlock releases key only while it is still held with token.
func (s *lockService) Unlock(ctx context.Context, key, token string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	current, err := s.holder(ctx, key)
	if err != nil {
		s.Log.Error("lockService.Unlock error reading lock holder",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return err
	}
	if current == nil {
		return nil
	}

	if current.Token != token {
		err := exceptions.ErrRedisUnlock(errors.New("lock is held by another token"))
		s.Log.Error("lockService.Unlock lock ownership mismatch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.String(constvars.LoggingLockValueKey, token),
			zap.Error(err),
		)
		return err
	}

	if err := s.RedisRepository.Delete(ctx, key); err != nil {
		s.Log.Error("lockService.Unlock error calling RedisRepository.Delete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// holder returns nil when key is not set.
func (s *lockService) holder(ctx context.Context, key string) (*lockHolder, error) {
	raw, err := s.RedisRepository.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	current := new(lockHolder)
	if err := json.Unmarshal([]byte(raw), current); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return current, nil
}
