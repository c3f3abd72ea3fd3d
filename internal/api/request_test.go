package api

import (
	"net/http"
	"testing"
)

// TestRequest はRequest値の不変性とアクセサを検証する。
func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("ヘッダーキーの大文字小文字が無視されること", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Authorization", "Bearer abc")
		req := NewRequest(http.MethodGet, "/v0.0.1/projects", header, nil)

		if got := req.Header("authorization"); got != "Bearer abc" {
			t.Errorf("Header(authorization) = %q, want %q", got, "Bearer abc")
		}
		if got := req.Header("AUTHORIZATION"); got != "Bearer abc" {
			t.Errorf("Header(AUTHORIZATION) = %q, want %q", got, "Bearer abc")
		}
	})

	t.Run("WithPathが元の値を変更しないこと", func(t *testing.T) {
		t.Parallel()

		original := NewRequest(http.MethodGet, "/v0.0.1/projects", nil, nil)
		rewritten := original.WithPath("projects")

		if original.Path() != "/v0.0.1/projects" {
			t.Errorf("元のパス = %q, want %q", original.Path(), "/v0.0.1/projects")
		}
		if rewritten.Path() != "projects" {
			t.Errorf("書き換え後のパス = %q, want %q", rewritten.Path(), "projects")
		}
	})

	t.Run("WithAttributeが元の値を変更しないこと", func(t *testing.T) {
		t.Parallel()

		original := NewRequest(http.MethodGet, "/v0.0.1/projects", nil, nil)
		attached := original.WithAttribute(VersionAttribute, "v0.0.1")

		if got := original.Attribute(VersionAttribute); got != nil {
			t.Errorf("元の属性 = %v, want nil", got)
		}
		if got := attached.Attribute(VersionAttribute); got != "v0.0.1" {
			t.Errorf("付与後の属性 = %v, want %q", got, "v0.0.1")
		}
	})

	t.Run("NewRequestが渡されたヘッダーを複製すること", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("If-None-Match", "abc")
		req := NewRequest(http.MethodGet, "/", header, nil)

		header.Set("If-None-Match", "changed")
		if got := req.Header("If-None-Match"); got != "abc" {
			t.Errorf("Header(If-None-Match) = %q, want %q", got, "abc")
		}
	})
}
