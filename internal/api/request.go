package api

import (
	"net/http"
)

// VersionAttribute は解決済みAPIバージョンを保持するリクエスト属性キー。
const VersionAttribute = "loris-api-version"

// Request はディスパッチ層で扱う不変のHTTPリクエスト値。
// WithPath / WithAttribute は元の値を変更せず、新しい値を返す。
type Request struct {
	method string
	path   string
	header http.Header
	body   []byte
	attrs  map[string]any
}

// NewRequest は新しいRequest値を生成する。
// headerがnilの場合は空のヘッダーとして扱う。
func NewRequest(method, path string, header http.Header, body []byte) Request {
	h := make(http.Header, len(header))
	for k, vs := range header {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	return Request{
		method: method,
		path:   path,
		header: h,
		body:   body,
		attrs:  map[string]any{},
	}
}

// Method はHTTPメソッド名を返す。
func (r Request) Method() string {
	return r.method
}

// Path はリクエストパスを返す。
func (r Request) Path() string {
	return r.path
}

// Header は指定したキーのヘッダー値を返す。キーの大文字小文字は無視する。
func (r Request) Header(key string) string {
	return r.header.Get(key)
}

// Body はリクエストボディを返す。
func (r Request) Body() []byte {
	return r.body
}

// Attribute は指定したキーの属性値を返す。未設定の場合はnilを返す。
func (r Request) Attribute(key string) any {
	return r.attrs[key]
}

// WithPath はパスを差し替えた新しいRequestを返す。
func (r Request) WithPath(path string) Request {
	nr := r.clone()
	nr.path = path
	return nr
}

// WithAttribute は属性を追加した新しいRequestを返す。
func (r Request) WithAttribute(key string, value any) Request {
	nr := r.clone()
	nr.attrs[key] = value
	return nr
}

// clone はヘッダーと属性を深いコピーして複製を返す。
// ボディはディスパッチ層で変更されないため共有する。
func (r Request) clone() Request {
	h := make(http.Header, len(r.header))
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	attrs := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		attrs[k] = v
	}
	return Request{
		method: r.method,
		path:   r.path,
		header: h,
		body:   r.body,
		attrs:  attrs,
	}
}
