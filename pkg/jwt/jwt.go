package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Issuer 签发者标识
const Issuer = "bookshelf"

// Manager 管理后台会话Token
// 设计说明：
// 1. 后台登录成功后签发一个短期Token，写入HttpOnly Cookie
// 2. Token中携带用户名与权限列表(capabilities)，中间件据此做权限判断
// 3. 登出时Token进入Redis黑名单，直到自然过期
type Manager struct {
	secret string        // JWT签名密钥
	expire time.Duration // 会话有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
	}
}

// Claims 自定义JWT Claims
type Claims struct {
	Username     string   `json:"username"`
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

// Can 判断会话是否持有某项权限
func (c *Claims) Can(capability string) bool {
	for _, granted := range c.Capabilities {
		if granted == capability {
			return true
		}
	}
	return false
}

// Session 签发结果
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateToken 为后台用户签发会话Token
func (m *Manager) GenerateToken(username string, capabilities []string) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.expire)

	claims := Claims{
		Username:     username,
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成会话Token失败")
	}

	return &Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken 解析并验证Token
// 校验签名算法、签名、exp/nbf以及签发者
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// Expire 会话有效期（Cookie MaxAge、黑名单TTL使用）
func (m *Manager) Expire() time.Duration {
	return m.expire
}
