// Package api はバージョン付きAPIディスパッチの中核を提供する。
//
// リクエストパスからのAPIバージョン抽出と検証、エンドポイントへの
// ディスパッチ、認可失敗とルーティング失敗を区別不能にするレスポンス
// マスキングを担当する。Request/Responseは不変値であり、変換は常に
// 新しい値を返す。
package api
