package api

import "net/http"

// Mask は認可失敗とルーティング失敗を単一の404応答に正規化する。
// 401・403・404はいずれも {"error":"not found"} の404に置き換えられ、
// 呼び出し元は保護されたリソースの存在を観測できない。
// それ以外のステータスはヘッダー・ボディともに無変更で通過する。
func Mask(resp Response) Response {
	switch resp.Status() {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return Error(http.StatusNotFound, "not found")
	default:
		return resp
	}
}
