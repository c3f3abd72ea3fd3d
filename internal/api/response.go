package api

import (
	"encoding/json"
	"net/http"
)

// contentTypeJSON はJSONレスポンスのContent-Type値。
const contentTypeJSON = "application/json"

// Response はディスパッチ層が生成する不変のHTTPレスポンス値。
// With系メソッドは元の値を変更せず、新しい値を返す。
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse は指定したステータスコードの空レスポンスを生成する。
func NewResponse(status int) Response {
	return Response{
		status: status,
		header: http.Header{},
	}
}

// JSON は任意の値をJSONエンコードしたレスポンスを生成する。
// エンコードに失敗した場合は500の固定エラーボディを返す。
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	return NewResponse(status).
		WithHeader("Content-Type", contentTypeJSON).
		WithBody(body)
}

// Error は {"error":"<msg>"} 形式のJSONエラーレスポンスを生成する。
// 全てのゲートウェイエラーはこの形式で返す。
func Error(status int, msg string) Response {
	return JSON(status, map[string]string{"error": msg})
}

// Status はステータスコードを返す。
func (r Response) Status() int {
	return r.status
}

// Header はレスポンスヘッダーの複製を返す。
func (r Response) Header() http.Header {
	h := make(http.Header, len(r.header))
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	return h
}

// HeaderValue は指定したキーのヘッダー値を返す。
func (r Response) HeaderValue(key string) string {
	return r.header.Get(key)
}

// Body はレスポンスボディを返す。
func (r Response) Body() []byte {
	return r.body
}

// WithStatus はステータスコードを差し替えた新しいResponseを返す。
func (r Response) WithStatus(status int) Response {
	nr := r.clone()
	nr.status = status
	return nr
}

// WithHeader はヘッダーを設定した新しいResponseを返す。
func (r Response) WithHeader(key, value string) Response {
	nr := r.clone()
	nr.header.Set(key, value)
	return nr
}

// WithBody はボディを差し替えた新しいResponseを返す。
func (r Response) WithBody(body []byte) Response {
	nr := r.clone()
	nr.body = body
	return nr
}

// clone はヘッダーを深いコピーして複製を返す。
func (r Response) clone() Response {
	h := make(http.Header, len(r.header))
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	return Response{
		status: r.status,
		header: h,
		body:   r.body,
	}
}
