package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness.
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ConfigScript tells the static frontend which profile the deployment serves.
func (a *API) ConfigScript(c *gin.Context) {
	owner, err := json.Marshal(a.profileUsername)
	if err != nil {
		owner = []byte(`""`)
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(fmt.Sprintf("window.BIOLINK_OWNER = %s;", owner)))
}
