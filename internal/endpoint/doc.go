// Package endpoint はバージョン付きAPIの各エンドポイント実装を提供する。
//
// 認証（login）とプロジェクト一覧（projects）を含む。認証情報の検証と
// 設定値の取得は外部コラボレータ（AuthenticatorとConfig）に委譲され、
// 本パッケージは偽実装で差し替え可能な契約としてのみ依存する。
package endpoint
