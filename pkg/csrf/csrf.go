// Package csrf 按动作划分作用域的防伪令牌(nonce)
//
// 令牌是一个短期HS256 JWT，声明中绑定了：
//   - act: 动作名（如books_add、books_edit），不同表单的令牌不能混用
//   - sub: 会话主体（后台用户名；匿名访客为空串）
//   - jti: 随机ID，配合UsedTokenStore实现一次性令牌
package csrf

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// UsedTokenStore 记录已消费的令牌ID
// MarkUsed首次标记返回true，重复标记返回false
type UsedTokenStore interface {
	MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

type claims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// Manager 防伪令牌管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  UsedTokenStore
}

// NewManager 创建令牌管理器
// store为nil时VerifyOnce退化为Verify（令牌在有效期内可重复使用）
func NewManager(secret string, ttl time.Duration, store UsedTokenStore) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
	}
}

// Generate 为指定动作和会话主体签发令牌
func (m *Manager) Generate(action, subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "生成防伪令牌失败")
	}
	return signed, nil
}

// Verify 校验令牌的签名、有效期、动作和会话主体
func (m *Manager) Verify(_ context.Context, token, action, subject string) error {
	_, err := m.parse(token, action, subject)
	return err
}

// VerifyOnce 校验令牌并将其标记为已使用
func (m *Manager) VerifyOnce(ctx context.Context, token, action, subject string) error {
	c, err := m.parse(token, action, subject)
	if err != nil {
		return err
	}
	if m.store == nil {
		return nil
	}

	ttl := time.Until(c.ExpiresAt.Time)
	if ttl <= 0 {
		return apperrors.ErrInvalidNonce
	}

	first, err := m.store.MarkUsed(ctx, c.ID, ttl)
	if err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "校验防伪令牌失败", Err: err}
	}
	if !first {
		return apperrors.ErrInvalidNonce
	}
	return nil
}

func (m *Manager) parse(token, action, subject string) (*claims, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidNonce
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		// 过期、篡改、格式错误统一返回令牌无效，不向调用方区分原因
		return nil, apperrors.ErrInvalidNonce
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.ErrInvalidNonce
	}
	if c.Action != action || c.Subject != subject {
		return nil, apperrors.ErrInvalidNonce
	}
	return c, nil
}
