// Package token はベアラートークンの発行・検証と署名鍵の強度判定を提供する。
//
// トークンはHMAC-SHA256で署名され、サーバー側にセッションを持たない。
// 有効期限はクレームのみで判定されるため、失効処理は存在しない。
// 署名鍵は発行のたびに設定から読み直される前提であり、弱い鍵による
// 署名は発行時点で拒否される。
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWeakKey は署名鍵が強度要件を満たさない場合に返される。
// 鍵そのものをエラーメッセージに含めてはならない。
var ErrWeakKey = errors.New("署名鍵が強度要件を満たしていない")

// tokenLifetime は発行したトークンの有効期間。
const tokenLifetime = 24 * time.Hour

// keySymbols は署名鍵の記号クラスとして認める固定の文字集合。
const keySymbols = "!@#$%^&*()-_=+[]{}|;:'\",.<>?/~`\\"

// Claims はゲートウェイが発行するトークンのクレーム。
type Claims struct {
	jwt.RegisteredClaims
	// User は認証されたユーザー名。
	User string `json:"user"`
}

// IsKeyStrong は秘密鍵がトークン署名に使える強度を持つか判定する。
// 判定条件: 長さ20以上、英字のみ・数字のみではない、かつ
// {数字, 英字, 固定集合の記号} の3クラス全てを含むこと。
// 純粋な決定的関数であり、I/Oや失敗は発生しない。
func IsKeyStrong(key string) bool {
	if len(key) < 20 {
		return false
	}

	var hasDigit, hasLetter, hasSymbol, hasOther bool
	for _, r := range key {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case strings.ContainsRune(keySymbols, r):
			hasSymbol = true
		default:
			hasOther = true
		}
	}

	// 単一クラスのみで構成された鍵は長さに関わらず拒否する。
	if hasLetter && !hasDigit && !hasSymbol && !hasOther {
		return false
	}
	if hasDigit && !hasLetter && !hasSymbol && !hasOther {
		return false
	}

	classes := 0
	for _, present := range []bool{hasDigit, hasLetter, hasSymbol} {
		if present {
			classes++
		}
	}
	return classes >= 3
}

// Issue は認証済みユーザーのベアラートークンを発行する。
// 署名鍵が弱い場合はErrWeakKeyを返し、トークンは発行しない。
// クレームは iss=aud=baseURL、iat=nbf=now、exp=now+24時間、user=user。
func Issue(user, signingKey, baseURL string, now time.Time) (string, error) {
	if !IsKeyStrong(signingKey) {
		return "", ErrWeakKey
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    baseURL,
			Audience:  jwt.ClaimStrings{baseURL},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
		User: user,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークン文字列を検証し、クレームを返す。
// 署名不一致・期限切れ・形式不正はいずれもエラーとなる。
func Verify(tokenString, signingKey string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("トークンの検証に失敗: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("トークンが無効")
	}
	return claims, nil
}
