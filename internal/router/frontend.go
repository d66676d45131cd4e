package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// frontend serves the bundled single page apps from a static directory:
// real files first, /admin/* to the admin shell, everything else to the public page.
type frontend struct {
	dir string
}

func registerFrontend(r *gin.Engine, dir string) {
	f := frontend{dir: dir}

	r.GET("/admin", f.serveAdmin)
	r.GET("/admin/*path", f.serveAdmin)
	r.NoRoute(f.serve)
}

func (f frontend) serveAdmin(c *gin.Context) {
	if f.serveAsset(c) {
		return
	}
	c.File(filepath.Join(f.dir, "admin", "index.html"))
}

func (f frontend) serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if f.serveAsset(c) {
		return
	}
	c.File(filepath.Join(f.dir, "index.html"))
}

// serveAsset writes the file matching the request path when one exists.
// index.html files are only reachable through the fallbacks.
func (f frontend) serveAsset(c *gin.Context) bool {
	cleaned := path.Clean("/" + c.Request.URL.Path)
	if cleaned == "/" || path.Base(cleaned) == "index.html" {
		return false
	}

	target := filepath.Join(f.dir, filepath.FromSlash(cleaned))
	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return false
	}

	c.File(target)
	return true
}
