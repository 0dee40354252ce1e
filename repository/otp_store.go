package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

// OTPStore keeps one pending one-time code per phone number.
type OTPStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Get returns "" when no unexpired code exists.
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

type RedisOTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (s *RedisOTPStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKeyPrefix+phone, code, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, otpKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load otp: %w", err)
	}
	return code, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
