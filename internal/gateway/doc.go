// Package gateway はバージョン付きAPIゲートウェイのHTTPサーバーを提供する。
//
// APIバージョンの検証、資格情報のトークン交換、バージョン付きリソースの
// 配信を担当する。外部からアクセス可能な唯一の境界であり、認可失敗と
// ルーティング失敗は呼び出し元から区別できないよう正規化される。
package gateway
