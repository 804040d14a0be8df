package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "happyfans"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session revoked")
)

// Claims 会话令牌内容；Subject 为用户 id
type Claims struct {
	jwt.RegisteredClaims
}

// UserID 返回 Subject 原文，由调用方按不存在处理非法值
func (c *Claims) UserID() string { return c.Subject }

// Manager 签发、校验、吊销会话令牌
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked Revoker
	now     func() time.Time
}

func NewManager(secret string, ttl time.Duration, revoked Revoker) *Manager {
	if revoked == nil {
		revoked = NewMemoryRevoker()
	}
	return &Manager{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// RandomSecret 未配置密钥时使用，重启后旧会话全部失效
func RandomSecret() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue 为用户签发令牌，返回令牌与过期时间
func (m *Manager) Issue(userID uint) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, errors.New("invalid user id")
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse 校验签名、签发者、有效期与吊销状态
func (m *Manager) Parse(ctx context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke 吊销令牌直到其自然过期；无效令牌视为已登出
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.Parse(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRevoked) {
			return nil
		}
		return err
	}
	remaining := claims.ExpiresAt.Time.Sub(m.now())
	if remaining <= 0 {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, remaining)
}
