package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/loris-clinical/gateway/internal/api"
	"github.com/loris-clinical/gateway/pkg/token"
)

// allVersions は現行エンドポイントが対応するAPIバージョンの一覧。
var allVersions = []string{"v0.0.1", "v0.0.2", "v0.0.3-dev"}

// settingJWTKey はトークン署名鍵を保持する設定名。
const settingJWTKey = "JWTKey"

// Authenticator は資格情報の検証を行う外部コラボレータの契約。
type Authenticator interface {
	// PasswordAuthenticate はユーザー名とパスワードの組を検証する。
	// 失敗した場合、第2戻り値に失敗理由を返す。
	PasswordAuthenticate(ctx context.Context, username, password string, remember bool) (bool, string)
}

// Config は設定値を提供する外部コラボレータの契約。
type Config interface {
	// GetSetting は設定名に対応する値を返す。呼び出しのたびに
	// 最新の設定を読み直す。
	GetSetting(ctx context.Context, name string) (string, error)
	// ProjectNames は設定済みプロジェクト名を名前順で返す。
	ProjectNames(ctx context.Context) ([]string, error)
}

// Login は資格情報をベアラートークンに交換するエンドポイント。
type Login struct {
	auth    Authenticator
	cfg     Config
	baseURL string
	// now は発行時刻の供給源。テストで固定時刻に差し替える。
	now func() time.Time
}

// NewLogin はLoginエンドポイントを生成する。
func NewLogin(auth Authenticator, cfg Config, baseURL string) *Login {
	return &Login{
		auth:    auth,
		cfg:     cfg,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// HasAccess は常にtrueを返す。ログイン試行は誰にでも許可される。
func (l *Login) HasAccess(_ context.Context, _ api.Request) bool {
	return true
}

// AllowedMethods はPOSTのみを返す。
func (l *Login) AllowedMethods() []string {
	return []string{http.MethodPost}
}

// SupportedVersions は対応するAPIバージョンの一覧を返す。
func (l *Login) SupportedVersions() []string {
	return allVersions
}

// loginRequest はログインリクエストボディの構造。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handle はログインリクエストを処理する。
// ボディが不正な場合は認証器を呼び出さずに400を返す。
// 署名鍵は発行のたびに設定から読み直し、弱い鍵は500で拒否する。
func (l *Login) Handle(ctx context.Context, req api.Request) api.Response {
	var body loginRequest
	if err := json.Unmarshal(req.Body(), &body); err != nil || body.Username == "" || body.Password == "" {
		return api.Error(http.StatusBadRequest, "Missing username or password")
	}

	ok, reason := l.auth.PasswordAuthenticate(ctx, body.Username, body.Password, false)
	if !ok {
		return api.Error(http.StatusUnauthorized, reason)
	}

	signingKey, err := l.cfg.GetSetting(ctx, settingJWTKey)
	if err != nil {
		// 鍵が未設定の場合も弱い鍵と同じ扱いで発行を拒否する。
		signingKey = ""
	}

	signed, err := token.Issue(body.Username, signingKey, l.baseURL, l.now())
	if err != nil {
		if errors.Is(err, token.ErrWeakKey) {
			return api.Error(http.StatusInternalServerError, "Unacceptable signing key")
		}
		return api.Error(http.StatusInternalServerError, "Internal server error")
	}

	return api.JSON(http.StatusOK, map[string]string{"token": signed})
}
