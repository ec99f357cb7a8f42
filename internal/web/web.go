// Package web はブラウザ向けの静的クライアントを配信します。
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

// Register は "/" に index.html を、"/static" 以下に JS/CSS を登録します。
func Register(r *gin.Engine) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// embed されたディレクトリなので失敗しない
		panic(err)
	}
	index, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		panic(err)
	}

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.StaticFS("/static", http.FS(assets))
}
