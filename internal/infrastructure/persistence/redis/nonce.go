package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// UsedTokenStore 已消费的防伪令牌记录(实现csrf.UsedTokenStore)
// Key设计：nonce:{jti}，过期时间等于令牌剩余有效期
type UsedTokenStore struct {
	client *redis.Client
}

// NewUsedTokenStore 创建令牌记录存储
func NewUsedTokenStore(client *redis.Client) *UsedTokenStore {
	return &UsedTokenStore{client: client}
}

// MarkUsed SETNX原子标记，首次返回true
func (s *UsedTokenStore) MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "nonce:"+id, 1, ttl).Result()
	if err != nil {
		return false, wrapRedis(err, "记录防伪令牌失败")
	}
	return ok, nil
}
