package api

import (
	"context"
	"net/http"
	"slices"
	"strings"
)

// Endpoint はバージョン付きAPIの各エンドポイントが実装する契約。
// Dispatchはアクセス可否→メソッド→バージョンの順に検査し、
// 全て通過した場合のみHandleを呼び出す。
type Endpoint interface {
	// HasAccess は呼び出し元がこのエンドポイントへアクセスできるか判定する。
	// falseの場合、マスキングにより未定義ルートと区別不能な応答になる。
	HasAccess(ctx context.Context, req Request) bool
	// AllowedMethods は許可するHTTPメソッドの一覧を返す。空であってはならない。
	AllowedMethods() []string
	// SupportedVersions は対応するAPIバージョンの一覧を返す。空であってはならない。
	SupportedVersions() []string
	// Handle は検証済みリクエストに対する応答を生成する。
	Handle(ctx context.Context, req Request) Response
}

// ETagger はキャッシュ可能な出力を持つエンドポイントが追加で実装する契約。
// ETag値は同一ハンドラインスタンス内で常に同じバイト列を返さなければならない。
type ETagger interface {
	// ETag は応答ボディの内容ハッシュを返す。
	ETag(ctx context.Context, req Request) (string, error)
}

// Factory はリクエストごとに新しいエンドポイントインスタンスを生成する。
// インスタンス内のメモ化キャッシュを単一リクエストの寿命に閉じ込めるため、
// インスタンスをリクエスト間で再利用してはならない。
type Factory func() Endpoint

// Registry はエンドポイント名（パスの先頭セグメント）からファクトリへの対応表。
type Registry struct {
	factories map[string]Factory
}

// NewRegistry は空のRegistryを生成する。
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register はエンドポイントを登録する。
func (reg *Registry) Register(name string, f Factory) {
	reg.factories[name] = f
}

// Dispatch はバージョン解決済みリクエストをエンドポイントへ振り分ける。
// 未登録エンドポイントとアクセス拒否はマスキングされ、呼び出し元からは
// どちらも同一の404応答に見える。
func (reg *Registry) Dispatch(ctx context.Context, req Request) Response {
	name, subPath := splitEndpointPath(req.Path())

	factory, ok := reg.factories[name]
	if !ok {
		return Mask(Error(http.StatusNotFound, "Invalid API endpoint"))
	}
	ep := factory()
	req = req.WithPath(subPath)

	if !ep.HasAccess(ctx, req) {
		return Mask(Error(http.StatusUnauthorized, "User does not have permission"))
	}
	if !slices.Contains(ep.AllowedMethods(), req.Method()) {
		return Error(http.StatusMethodNotAllowed, "Method not allowed")
	}
	version, _ := req.Attribute(VersionAttribute).(string)
	if !slices.Contains(ep.SupportedVersions(), version) {
		return Error(http.StatusBadRequest, "Unsupported version for this endpoint")
	}

	if req.Method() == http.MethodGet {
		if tagger, ok := ep.(ETagger); ok {
			return reg.dispatchConditional(ctx, ep, tagger, req)
		}
	}
	return ep.Handle(ctx, req)
}

// dispatchConditional はETag対応エンドポイントの条件付きGETを処理する。
// If-None-Matchが一致した場合はHandleを呼ばず304を返す。
func (reg *Registry) dispatchConditional(ctx context.Context, ep Endpoint, tagger ETagger, req Request) Response {
	tag, err := tagger.ETag(ctx, req)
	if err != nil || tag == "" {
		// ハッシュ計算に失敗した場合は条件判定を諦めて通常処理に落とす。
		return ep.Handle(ctx, req)
	}

	if req.Header("If-None-Match") == tag {
		return NewResponse(http.StatusNotModified).WithHeader("ETag", tag)
	}

	resp := ep.Handle(ctx, req)
	if resp.Status() >= 200 && resp.Status() < 300 {
		resp = resp.WithHeader("ETag", tag)
	}
	return resp
}

// splitEndpointPath はバージョン除去後のパスをエンドポイント名と
// サブパスに分割する。例: "projects/P01" → ("projects", "/P01")。
func splitEndpointPath(path string) (name, subPath string) {
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}
