package handler

import (
	"net/http"

	"github.com/biolink/internal/service"
	"github.com/biolink/internal/view"
	"github.com/gin-gonic/gin"
)

type socialRequest struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Active   *bool  `json:"active"`
}

type socialsRequest struct {
	Socials []socialRequest `json:"socials"`
}

// UpdateSocials replaces the whole social list.
func (a *API) UpdateSocials(c *gin.Context) {
	var payload socialsRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	inputs := make([]service.SocialInput, 0, len(payload.Socials))
	for _, item := range payload.Socials {
		inputs = append(inputs, service.SocialInput{
			ID:       item.ID,
			Platform: item.Platform,
			URL:      item.URL,
			Active:   item.Active,
		})
	}

	profile, err := a.socials.ReplaceSocials(currentOwnerID(c), inputs)
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "socials updated", "profile": profile})
}

// ListPlatforms returns the social platforms that have a dedicated icon.
func (a *API) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": view.PlatformOptions()})
}
