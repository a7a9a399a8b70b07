package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore 后台会话存储
// 设计说明：
// 1. 记录后台用户最近一次登录信息（登录时间、IP）
// 2. JWT黑名单（登出后Token立即失效）
// 3. Key设计：session:{username}、blacklist:{sha256(token)}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存登录信息，过期时间与会话Token一致
func (s *SessionStore) SaveSession(ctx context.Context, username string, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(username)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapRedis(err, "保存会话失败")
	}
	return nil
}

// GetSession 读取登录信息，不存在时返回空map
func (s *SessionStore) GetSession(ctx context.Context, username string) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(username)).Result()
	if err != nil {
		return nil, wrapRedis(err, "获取会话失败")
	}
	return result, nil
}

// DeleteSession 删除登录信息（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, sessionKey(username)).Err(); err != nil {
		return wrapRedis(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单，ttl取Token剩余有效期
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return wrapRedis(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, wrapRedis(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

func sessionKey(username string) string {
	return fmt.Sprintf("session:%s", username)
}

// blacklistKey Token较长，取摘要作为key
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}
