package api

import (
	"context"
	"regexp"
)

// GatewayVersions はゲートウェイ自身が理解するAPIバージョンの一覧。
// 各エンドポイントの対応バージョンとは独立しており、その上位集合となる。
// バージョンは追加のみ行い、非推奨化の手順なしに削除してはならない。
var GatewayVersions = []string{"v0.0.1", "v0.0.2", "v0.0.3-dev"}

// versionPattern はパス先頭のバージョンセグメントを抽出するパターン。
// 例: /v0.0.3-dev/login → バージョン "v0.0.3-dev"、残り "login"。
// 先頭のスラッシュは省略可能。
var versionPattern = regexp.MustCompile(`^/?(v\d+\.\d+\.\d+[^/]*)/(.*)$`)

// extractVersion はパスからバージョンセグメントと残りのパスを抽出する。
// パターンに一致しない場合は ok=false を返す。
func extractVersion(path string) (version, remainder string, ok bool) {
	m := versionPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Router はAPIバージョンの抽出・検証を行い、エンドポイントへ転送する。
type Router struct {
	// versions はゲートウェイが受理するバージョンの集合。
	versions map[string]struct{}
	// registry はエンドポイント名からファクトリへの対応表。
	registry *Registry
}

// NewRouter は指定したバージョン一覧とレジストリからRouterを生成する。
func NewRouter(versions []string, registry *Registry) *Router {
	set := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		set[v] = struct{}{}
	}
	return &Router{versions: set, registry: registry}
}

// Route はリクエストパスからバージョンを解決し、エンドポイントへディスパッチする。
// バージョンが欠落または未対応の場合は400を返し、ディスパッチは行わない。
// 成功時はパスを残りに書き換え、解決済みバージョンを属性として付与する。
func (r *Router) Route(ctx context.Context, req Request) Response {
	version, remainder, ok := extractVersion(req.Path())
	if !ok {
		return Error(400, "You must specify a version of the API to use in the URL.")
	}
	if _, whitelisted := r.versions[version]; !whitelisted {
		return Error(400, "Unsupported LORIS API version "+version)
	}

	req = req.WithPath(remainder).WithAttribute(VersionAttribute, version)
	return r.registry.Dispatch(ctx, req)
}
