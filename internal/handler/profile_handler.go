package handler

import (
	"net/http"

	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
)

type basicInfoRequest struct {
	DisplayName     *string `json:"displayName"`
	Bio             *string `json:"bio"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
}

type themePayload struct {
	BackgroundColor    *string `json:"backgroundColor"`
	CardColor          *string `json:"cardColor"`
	PrimaryColor       *string `json:"primaryColor"`
	SecondaryColor     *string `json:"secondaryColor"`
	TextColor          *string `json:"textColor"`
	SubtextColor       *string `json:"subtextColor"`
	FontFamily         *string `json:"fontFamily"`
	ButtonStyle        *string `json:"buttonStyle"`
	BackgroundStyle    *string `json:"backgroundStyle"`
	BackgroundGradient *string `json:"backgroundGradient"`
	BackgroundImage    *string `json:"backgroundImage"`
	AnimationEnabled   *bool   `json:"animationEnabled"`
}

type themeRequest struct {
	Theme *themePayload `json:"theme"`
}

// GetPublicProfile 返回公开页数据，并累加浏览量
func (a *API) GetPublicProfile(c *gin.Context) {
	profile, err := a.profiles.GetPublicProfile(c.Param("username"))
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// TrackClick counts a link click. Anonymous callers always get success.
func (a *API) TrackClick(c *gin.Context) {
	a.links.RecordClick(c.Param("username"), c.Param("linkId"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMyProfile returns the full profile of the authenticated owner.
func (a *API) GetMyProfile(c *gin.Context) {
	profile, err := a.profiles.GetFullProfile(currentOwnerID(c))
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateInfo applies a partial update of display name, bio and SEO fields.
func (a *API) UpdateInfo(c *gin.Context) {
	var payload basicInfoRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	profile, err := a.profiles.UpdateBasicInfo(currentOwnerID(c), service.BasicInfoInput{
		DisplayName:     payload.DisplayName,
		Bio:             payload.Bio,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
	})
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "profile": profile})
}

// UpdateTheme replaces the theme.
func (a *API) UpdateTheme(c *gin.Context) {
	var payload themeRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}
	if payload.Theme == nil {
		respondError(c, http.StatusBadRequest, "theme is required")
		return
	}

	profile, err := a.profiles.UpdateTheme(currentOwnerID(c), payload.Theme.toInput())
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "theme updated", "profile": profile})
}

// GetStats returns view and click counters.
func (a *API) GetStats(c *gin.Context) {
	stats, err := a.analytics.Stats(currentOwnerID(c))
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (p themePayload) toInput() service.ThemeInput {
	return service.ThemeInput{
		BackgroundColor:    p.BackgroundColor,
		CardColor:          p.CardColor,
		PrimaryColor:       p.PrimaryColor,
		SecondaryColor:     p.SecondaryColor,
		TextColor:          p.TextColor,
		SubtextColor:       p.SubtextColor,
		FontFamily:         p.FontFamily,
		ButtonStyle:        p.ButtonStyle,
		BackgroundStyle:    p.BackgroundStyle,
		BackgroundGradient: p.BackgroundGradient,
		BackgroundImage:    p.BackgroundImage,
		AnimationEnabled:   p.AnimationEnabled,
	}
}
