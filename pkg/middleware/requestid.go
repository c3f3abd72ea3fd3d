package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// headerKeyRequestID はリクエストIDを伝播するHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// contextKeyRequestID はGinコンテキストにリクエストIDを保持するキー。
const contextKeyRequestID = "request_id"

// RequestID は各リクエストに一意のIDを付与するGinミドルウェアを返す。
// 呼び出し元がX-Request-IDを指定した場合はその値を引き継ぎ、
// なければUUIDを採番する。IDはレスポンスヘッダーにも反映される。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerKeyRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(headerKeyRequestID, id)
		c.Next()
	}
}

// RequestIDFrom はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが適用されていない場合は空文字列を返す。
func RequestIDFrom(c *gin.Context) string {
	v, _ := c.Get(contextKeyRequestID)
	if id, ok := v.(string); ok {
		return id
	}
	return ""
}
