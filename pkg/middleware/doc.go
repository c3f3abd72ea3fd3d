// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリ、CORS設定、リクエストID付与を含む。
// APIのエラー応答は常に {"error": "..."} 形式のJSONで返す。
package middleware
