// ゲートウェイサービスのエントリポイント。
// APIバージョンの検証、資格情報のトークン交換、バージョン付きリソースの
// 配信を担当する。外部からアクセス可能な唯一の境界となる。
package main

import (
	"log"
	"os"

	"github.com/loris-clinical/gateway/internal/gateway"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server, err := gateway.NewServer(port)
	if err != nil {
		log.Fatalf("ゲートウェイサーバーの初期化に失敗: %v", err)
	}
	defer server.Close()

	log.Printf("ゲートウェイサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("ゲートウェイサービスの起動に失敗: %v", err)
	}
}
