package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/antisocialnet/antisocialnet/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType 定义token类型
type TokenType string

const (
	// AccessToken 访问令牌，用于访问资源
	AccessToken TokenType = "access"
	// RefreshToken 刷新令牌，用于获取新的访问令牌
	RefreshToken TokenType = "refresh"
	// ResetToken 密码重置令牌，只能用于重置密码
	ResetToken TokenType = "reset"
)

var (
	// ErrInvalidToken token无效
	ErrInvalidToken = errors.New("无效的令牌")
	// ErrWrongTokenType token类型不匹配
	ErrWrongTokenType = errors.New("令牌类型错误")
)

// Claims 自定义JWT声明结构体
type Claims struct {
	UserID  uint      `json:"user_id"`
	IsAdmin bool      `json:"is_admin"`
	Type    TokenType `json:"type"`
	TokenID string    `json:"jti,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair 包含访问令牌和刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// GenerateTokenPair 生成访问令牌和刷新令牌对
func GenerateTokenPair(userID uint, isAdmin bool) (*TokenPair, error) {
	cfg := config.GetConfig().JWT
	accessExpire := time.Duration(cfg.AccessExpireSeconds) * time.Second
	refreshExpire := time.Duration(cfg.RefreshExpireSeconds) * time.Second

	tokenID := generateTokenID()

	accessToken, err := generateToken(userID, isAdmin, AccessToken, accessExpire, tokenID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(userID, isAdmin, RefreshToken, refreshExpire, tokenID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(accessExpire.Seconds()),
	}, nil
}

// GenerateResetToken 生成密码重置令牌
// 令牌编码用户ID和签发时间，默认1小时过期
func GenerateResetToken(userID uint) (string, error) {
	cfg := config.GetConfig().JWT
	lifetime := time.Duration(cfg.ResetExpireSeconds) * time.Second
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return generateToken(userID, false, ResetToken, lifetime, generateTokenID())
}

// generateToken 创建指定类型的JWT令牌
func generateToken(userID uint, isAdmin bool, tokenType TokenType, expiration time.Duration, tokenID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		Type:    tokenType,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.GetConfig().JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GetConfig().JWT.SecretKey))
}

// ParseToken 解析并校验JWT令牌
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(config.GetConfig().JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseResetToken 解析密码重置令牌，返回用户ID
func ParseResetToken(tokenString string) (uint, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.Type != ResetToken {
		return 0, ErrWrongTokenType
	}
	return claims.UserID, nil
}

// generateTokenID 生成令牌唯一ID
func generateTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b)
}
