package gateway

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/loris-clinical/gateway/internal/api"
	"github.com/loris-clinical/gateway/internal/endpoint"
	"github.com/loris-clinical/gateway/internal/store"
	"github.com/loris-clinical/gateway/pkg/middleware"
)

// Server はゲートウェイサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はユーザー・設定ストア。
	store *store.Store
	// apiRouter はバージョン付きAPIのディスパッチャ。
	apiRouter *api.Router
	// baseURL はトークンのiss/audクレームに使う公開URL。
	baseURL string
}

// NewServer は新しいゲートウェイサーバーを生成する。
// SQLiteデータベースの初期化とスキーマ適用を行う。
func NewServer(port string) (*Server, error) {
	st, err := store.Open(getEnvOr("GATEWAY_DB_PATH", "/data/gateway.db?_journal_mode=WAL&_busy_timeout=5000"))
	if err != nil {
		return nil, err
	}

	baseURL := getEnvOr("BASE_URL", fmt.Sprintf("http://localhost:%s", port))
	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:  router,
		port:    port,
		store:   st,
		baseURL: baseURL,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はAPIルーティングを設定する。
// バージョン付きAPIはNoRouteのキャッチオールで受け、生のパスを
// バージョンルーターに渡す。
func (s *Server) setupRoutes() {
	registry := api.NewRegistry()
	// エンドポイントはリクエストごとに新しいインスタンスを生成する。
	// インスタンス内のメモ化キャッシュを他のリクエストと共有しないため。
	registry.Register("login", func() api.Endpoint {
		return endpoint.NewLogin(s.store, s.store, s.baseURL)
	})
	registry.Register("projects", func() api.Endpoint {
		return endpoint.NewProjects(s.store)
	})
	s.apiRouter = api.NewRouter(api.GatewayVersions, registry)

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	s.router.NoRoute(s.handleAPI())
}

// handleAPI はバージョン付きAPIリクエストを処理するハンドラを返す。
func (s *Server) handleAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		req := api.NewRequest(c.Request.Method, c.Request.URL.Path, c.Request.Header, body)
		resp := s.apiRouter.Route(c.Request.Context(), req)
		writeResponse(c, resp)
	}
}

// writeResponse はディスパッチ結果をGinのレスポンスとして書き出す。
func writeResponse(c *gin.Context, resp api.Response) {
	contentType := resp.HeaderValue("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	for k, vs := range resp.Header() {
		if k == "Content-Type" {
			continue
		}
		for _, v := range vs {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Data(resp.Status(), contentType, resp.Body())
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
