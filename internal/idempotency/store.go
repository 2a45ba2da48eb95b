// Package idempotency は X-Idempotency-Key で注文の二重作成を防ぐ。
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// 同じキーの処理がまだ終わっていない
var ErrInProgress = errors.New("request with this idempotency key is in progress")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// 利用者ごとに分ける（他人の同じキーで別の注文が返らないように）
func (s *Store) Key(actorID, key string) string {
	return fmt.Sprintf("idem:order:%s:%s", actorID, key)
}

// Begin はキーを確保する。すでに完了していればその注文IDを返す（started=false）。
func (s *Store) Begin(ctx context.Context, actorID, key string) (string, bool, error) {
	k := s.Key(actorID, key)
	ok, err := s.rdb.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	v, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// 期限切れと競合した。もう一度だけ取りにいく
		ok, err = s.rdb.SetNX(ctx, k, pending, s.ttl).Result()
		if err != nil {
			return "", false, err
		}
		if ok {
			return "", true, nil
		}
		return "", false, ErrInProgress
	}
	if err != nil {
		return "", false, err
	}
	if v == pending {
		return "", false, ErrInProgress
	}
	return v, false, nil
}

// 作成した注文IDを結果として残す
func (s *Store) Complete(ctx context.Context, actorID, key, orderID string) error {
	return s.rdb.Set(ctx, s.Key(actorID, key), orderID, s.ttl).Err()
}

// 失敗したらキーを解放して再送できるようにする
func (s *Store) Release(ctx context.Context, actorID, key string) error {
	return s.rdb.Del(ctx, s.Key(actorID, key)).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// REDIS_URL から作る
func Open(url string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return NewStore(redis.NewClient(opt), ttl), nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
