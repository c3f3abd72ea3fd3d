package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// strongTestKey は強度要件を満たすテスト用署名鍵。
const strongTestKey = "abcdefg1234567890!xyz"

// TestIsKeyStrong は署名鍵の強度判定を検証する。
func TestIsKeyStrong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"英字のみ20文字は拒否されること", "aaaaaaaaaaaaaaaaaaaa", false},
		{"数字のみ20文字は拒否されること", "12345678901234567890", false},
		{"20文字未満は拒否されること", "abc123!def456?ghi78", false},
		{"空文字列は拒否されること", "", false},
		{"英字と数字と記号を含む20文字以上は受理されること", strongTestKey, true},
		{"英字と数字のみの20文字以上は拒否されること", "abcdefghij1234567890", false},
		{"英字と記号のみの20文字以上は拒否されること", "abcdefghij!!!!!!!!!!", false},
		{"記号のみの20文字以上は拒否されること", "!!!!!!!!!!!!!!!!!!!!", false},
		{"3クラスを含めばマルチバイト文字が混ざっても受理されること", "abcdefg1234567890!あい", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsKeyStrong(tt.key); got != tt.want {
				t.Errorf("IsKeyStrong(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

// TestIssue はトークン発行を検証する。
func TestIssue(t *testing.T) {
	t.Parallel()

	t.Run("弱い署名鍵の場合ErrWeakKeyが返り空トークンとなること", func(t *testing.T) {
		t.Parallel()

		signed, err := Issue("alice", "short-key", "https://loris.example.org", time.Now())
		if !errors.Is(err, ErrWeakKey) {
			t.Errorf("err = %v, want ErrWeakKey", err)
		}
		if signed != "" {
			t.Errorf("トークン = %q, want 空文字列", signed)
		}
	})

	t.Run("強い署名鍵の場合に再検証可能なトークンが発行されること", func(t *testing.T) {
		t.Parallel()

		// クレームは秒精度で格納されるため、あらかじめ秒に丸めておく。
		now := time.Now().UTC().Truncate(time.Second)
		baseURL := "https://loris.example.org"

		signed, err := Issue("alice", strongTestKey, baseURL, now)
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}
		if signed == "" {
			t.Fatal("トークンが空")
		}

		claims, err := Verify(signed, strongTestKey)
		if err != nil {
			t.Fatalf("トークン検証に失敗: %v", err)
		}
		if claims.User != "alice" {
			t.Errorf("user = %q, want %q", claims.User, "alice")
		}
		if claims.Issuer != baseURL {
			t.Errorf("iss = %q, want %q", claims.Issuer, baseURL)
		}
		if len(claims.Audience) != 1 || claims.Audience[0] != baseURL {
			t.Errorf("aud = %v, want [%q]", claims.Audience, baseURL)
		}

		// expはiatのちょうど86400秒後でなければならない。
		exp := claims.ExpiresAt.Time
		iat := claims.IssuedAt.Time
		if got := exp.Sub(iat); got != 86400*time.Second {
			t.Errorf("exp - iat = %v, want %v", got, 86400*time.Second)
		}
		if !claims.NotBefore.Time.Equal(iat) {
			t.Errorf("nbf = %v, want %v", claims.NotBefore.Time, iat)
		}
	})

	t.Run("トークンがJWTの3部構成であること", func(t *testing.T) {
		t.Parallel()

		signed, err := Issue("bob", strongTestKey, "https://loris.example.org", time.Now())
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}
		if parts := strings.Split(signed, "."); len(parts) != 3 {
			t.Errorf("トークンのセグメント数 = %d, want 3", len(parts))
		}
	})
}

// TestVerify はトークン検証を検証する。
func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("異なる鍵で署名されたトークンが拒否されること", func(t *testing.T) {
		t.Parallel()

		signed, err := Issue("alice", strongTestKey, "https://loris.example.org", time.Now())
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}

		if _, err := Verify(signed, "another-key-123456!abc"); err == nil {
			t.Error("異なる鍵での検証が成功してしまった")
		}
	})

	t.Run("期限切れトークンが拒否されること", func(t *testing.T) {
		t.Parallel()

		// 発行時刻を2日前にして期限切れにする。
		signed, err := Issue("alice", strongTestKey, "https://loris.example.org", time.Now().Add(-48*time.Hour))
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}

		if _, err := Verify(signed, strongTestKey); err == nil {
			t.Error("期限切れトークンの検証が成功してしまった")
		}
	})

	t.Run("不正な形式の文字列が拒否されること", func(t *testing.T) {
		t.Parallel()

		if _, err := Verify("not-a-token", strongTestKey); err == nil {
			t.Error("不正な形式の検証が成功してしまった")
		}
	})
}
