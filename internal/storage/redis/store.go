package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

const keyPrefix = "session:"

var ErrEmptySessionID = errors.New("session id is empty")

type Config struct {
	L      *logger.Logger
	Client *redis.Client
	// TTL is refreshed on every Save. Zero keeps sessions forever.
	TTL time.Duration
}

// Store keeps sessions as JSON values under session:{id}.
type Store struct {
	l      *logger.Logger
	client *redis.Client
	ttl    time.Duration
}

func New(conf Config) *Store {
	return &Store{
		l:      conf.L,
		client: conf.Client,
		ttl:    conf.TTL,
	}
}

// NewClient builds a client and pings it so a bad address fails at startup.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	//nolint:exhaustruct
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return client, nil
}

func key(id string) string {
	return keyPrefix + id
}

func (s *Store) Get(ctx context.Context, id string) (*booking.Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, booking.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key(id), err)
	}

	var sess booking.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.l.LogWarnf("Dropping unreadable session %s: %v", id, err.Error())

		return nil, booking.ErrSessionNotFound
	}

	return &sess, nil
}

func (s *Store) Save(ctx context.Context, sess *booking.Session) error {
	if sess == nil || sess.ID == "" {
		return ErrEmptySessionID
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	if err := s.client.Set(ctx, key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key(sess.ID), err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key(id), err)
	}

	return nil
}

func (s *Store) String() string {
	return fmt.Sprintf("redis session store (%s, ttl %s)", s.client.Options().Addr, s.ttl)
}
