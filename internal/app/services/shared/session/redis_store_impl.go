package session

import (
	"context"
	"fmt"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type redisStore struct {
	RedisRepository contracts.RedisRepository
	TTL             time.Duration
	Log             *zap.Logger
}

// NewRedisStore keeps sessions in redis so replicas share timeline state.
func NewRedisStore(redisRepository contracts.RedisRepository, ttl time.Duration, logger *zap.Logger) contracts.SessionStore {
	return &redisStore{
		RedisRepository: redisRepository,
		TTL:             ttl,
		Log:             logger,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(constvars.SessionRedisKeyFormat, sessionID)
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	sessionData, err := s.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		s.Log.Error("redisStore.Get error calling RedisRepository.Get",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSessionStoreGet(err)
	}
	if sessionData == "" {
		return nil, nil
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionData), session); err != nil {
		s.Log.Warn("redisStore.Get discarding unreadable session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, nil
	}
	if session.IsExpired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *redisStore) Save(ctx context.Context, session *models.Session) error {
	if err := s.RedisRepository.Set(ctx, sessionKey(session.SessionID), session, s.TTL); err != nil {
		return exceptions.ErrSessionStoreSave(err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.RedisRepository.Delete(ctx, sessionKey(sessionID)); err != nil {
		return exceptions.ErrSessionStoreDelete(err)
	}
	return nil
}
