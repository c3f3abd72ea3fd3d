package endpoint

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/loris-clinical/gateway/internal/api"
	"github.com/loris-clinical/gateway/pkg/token"
)

// 設定名。値は設定ストア側で管理される。
const (
	settingUseProjects    = "useProjects"
	settingUseEDC         = "useEDC"
	settingPSCIDStructure = "PSCIDStructure"
)

// Projects は設定済みプロジェクトの一覧を返す読み取り専用エンドポイント。
//
// 計算済みペイロードはインスタンス内にメモ化され、本体のシリアライズと
// ETag計算の両方が同一の値を参照する。インスタンスはリクエストごとに
// 生成されるため、メモの寿命は単一リクエストに閉じる。
type Projects struct {
	cfg Config
	// cached は計算済みの正規化JSONボディ。初回アクセス時に遅延計算され、
	// 同一インスタンス内の以降の参照は常に同じバイト列を返す。
	cached []byte
}

// NewProjects はProjectsエンドポイントを生成する。
// リクエストごとに新しいインスタンスを生成すること。
func NewProjects(cfg Config) *Projects {
	return &Projects{cfg: cfg}
}

// HasAccess はAuthorizationヘッダーのベアラートークンを検証する。
// 署名鍵は検証のたびに設定から読み直す。
func (p *Projects) HasAccess(ctx context.Context, req api.Request) bool {
	tokenString, found := strings.CutPrefix(req.Header("Authorization"), "Bearer ")
	if !found {
		return false
	}
	signingKey, err := p.cfg.GetSetting(ctx, settingJWTKey)
	if err != nil {
		return false
	}
	if _, err := token.Verify(tokenString, signingKey); err != nil {
		return false
	}
	return true
}

// AllowedMethods はGETのみを返す。
func (p *Projects) AllowedMethods() []string {
	return []string{http.MethodGet}
}

// SupportedVersions は対応するAPIバージョンの一覧を返す。
func (p *Projects) SupportedVersions() []string {
	return allVersions
}

// projectSettings は1プロジェクト分のレスポンス構造。
type projectSettings struct {
	// UseEDC は電子データ収集の有効フラグ。
	UseEDC bool `json:"useEDC"`
	// PSCID は被験者ID書式の設定。
	PSCID pscidSettings `json:"PSCID"`
}

// projectsBody はレスポンス全体の構造。
type projectsBody struct {
	Projects map[string]projectSettings `json:"Projects"`
}

// Handle はプロジェクト一覧を返す。
// パスはエンドポイントルート（末尾スラッシュの有無は問わない）で
// なければならず、それ以外のサブパスは404となる。
func (p *Projects) Handle(ctx context.Context, req api.Request) api.Response {
	if req.Path() != "" && req.Path() != "/" {
		return api.Error(http.StatusNotFound, "Invalid API endpoint")
	}

	body, err := p.payload(ctx)
	if err != nil {
		return api.Error(http.StatusInternalServerError, "Internal server error")
	}
	return api.NewResponse(http.StatusOK).
		WithHeader("Content-Type", "application/json").
		WithBody(body)
}

// ETag は計算済みペイロードの内容ハッシュを16進表記で返す。
// キャッシュ無効化のための安定したダイジェストであり、
// 暗号学的強度は要件ではない。
func (p *Projects) ETag(ctx context.Context, req api.Request) (string, error) {
	// サブパスは404になるため条件付きGETの対象にしない。
	if req.Path() != "" && req.Path() != "/" {
		return "", nil
	}
	body, err := p.payload(ctx)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:]), nil
}

// payload はプロジェクト一覧の正規化JSONを返す。
// 同一インスタンス内では一度だけ計算され、以降は同じ値を返す。
func (p *Projects) payload(ctx context.Context) ([]byte, error) {
	if p.cached != nil {
		return p.cached, nil
	}

	settings, err := p.sharedSettings(ctx)
	if err != nil {
		return nil, err
	}

	names, err := p.projectNames(ctx)
	if err != nil {
		return nil, err
	}

	projects := make(map[string]projectSettings, len(names))
	for _, name := range names {
		projects[name] = settings
	}

	// encoding/jsonはマップのキーを整列するため、出力は正規形となる。
	body, err := json.Marshal(projectsBody{Projects: projects})
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧のエンコードに失敗: %w", err)
	}
	p.cached = body
	return p.cached, nil
}

// projectNames は設定に応じたプロジェクト名の一覧を返す。
// マルチプロジェクトモードが無効の場合は合成プロジェクト "loris" のみを返す。
func (p *Projects) projectNames(ctx context.Context) ([]string, error) {
	if !p.boolSetting(ctx, settingUseProjects) {
		return []string{"loris"}, nil
	}
	return p.cfg.ProjectNames(ctx)
}

// sharedSettings は全プロジェクトに共通する設定を組み立てる。
func (p *Projects) sharedSettings(ctx context.Context) (projectSettings, error) {
	structure := defaultPSCIDStructure()
	if raw, err := p.cfg.GetSetting(ctx, settingPSCIDStructure); err == nil {
		parsed, err := parsePSCIDStructure(raw)
		if err != nil {
			return projectSettings{}, err
		}
		structure = parsed
	}

	return projectSettings{
		UseEDC: p.boolSetting(ctx, settingUseEDC),
		PSCID:  structure.settings(),
	}, nil
}

// boolSetting は設定値を真偽値として解釈する。未設定はfalse扱い。
func (p *Projects) boolSetting(ctx context.Context, name string) bool {
	v, err := p.cfg.GetSetting(ctx, name)
	if err != nil {
		return false
	}
	return v == "true" || v == "1"
}
