// Package auth 解析 Bearer JWT，得到调用方身份。
// 角色以数据库为准，token 里的 role 只用于推送网关这类无库的场景。
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims 是签发给后台用户的 token 内容
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Caller 是通过认证的调用方
type Caller struct {
	ID   string
	Role string
}

type callerKey struct{}

// Verifier 负责签发和校验 HS256 token
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Issue 签发 token，主要给运维脚本和测试使用。
func (v *Verifier) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse 校验签名与有效期，返回调用方。
func (v *Verifier) Parse(tokenString string) (Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Caller{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return Caller{ID: claims.Subject, Role: claims.Role}, nil
}

// FromRequest 从 Authorization 头读取 token。
func (v *Verifier) FromRequest(r *http.Request) (Caller, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return Caller{}, ErrMissingToken
	}
	return v.Parse(strings.TrimSpace(token))
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
