package handler

import (
	"net/http"

	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
)

type linkCreateRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

type linkUpdateRequest struct {
	Title  *string `json:"title"`
	URL    *string `json:"url"`
	Icon   *string `json:"icon"`
	Active *bool   `json:"active"`
}

type linkReorderRequest struct {
	Order []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"order"`
}

// ListLinks returns the owner's links in insertion order.
func (a *API) ListLinks(c *gin.Context) {
	links, err := a.links.ListLinks(currentOwnerID(c))
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// AddLink 新增链接，排在现有链接之后
func (a *API) AddLink(c *gin.Context) {
	var payload linkCreateRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	links, err := a.links.AddLink(currentOwnerID(c), service.LinkInput{
		Title: payload.Title,
		URL:   payload.URL,
		Icon:  payload.Icon,
	})
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "link added", "links": links})
}

// UpdateLink 更新链接的部分字段
func (a *API) UpdateLink(c *gin.Context) {
	var payload linkUpdateRequest
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	links, err := a.links.UpdateLink(currentOwnerID(c), c.Param("id"), service.LinkUpdate{
		Title:  payload.Title,
		URL:    payload.URL,
		Icon:   payload.Icon,
		Active: payload.Active,
	})
	if err != nil {
		a.handleServiceError(c, err, "link not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "link updated", "links": links})
}

// DeleteLink 删除链接，重复删除不会报错
func (a *API) DeleteLink(c *gin.Context) {
	links, err := a.links.DeleteLink(currentOwnerID(c), c.Param("id"))
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "link deleted", "links": links})
}

// ReorderLinks 按 {id, order} 列表更新排序
func (a *API) ReorderLinks(c *gin.Context) {
	var payload linkReorderRequest
	if !bindJSON(c, &payload, "invalid order payload") {
		return
	}

	orders := make([]service.LinkOrder, 0, len(payload.Order))
	for _, item := range payload.Order {
		orders = append(orders, service.LinkOrder{ID: item.ID, Order: item.Order})
	}

	links, err := a.links.ReorderLinks(currentOwnerID(c), orders)
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "links reordered", "links": links})
}
