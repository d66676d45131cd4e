package handler

import (
	"errors"
	"net/http"

	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the image size limit
const uploadOverhead = 1 << 20

// UploadAvatar 处理头像上传请求，表单字段为 avatar
func (a *API) UploadAvatar(c *gin.Context) {
	a.uploadImage(c, "avatar", a.profiles.SetAvatar)
}

// UploadCover 处理封面上传请求，表单字段为 cover
func (a *API) UploadCover(c *gin.Context) {
	a.uploadImage(c, "cover", a.profiles.SetCoverImage)
}

func (a *API) uploadImage(c *gin.Context, field string, store func(uint, service.ImageUpload) (string, error)) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageBytes+uploadOverhead)

	// 获取上传的文件
	file, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, "image must not exceed 5 MB")
			return
		}
		respondError(c, http.StatusBadRequest, "no file uploaded")
		return
	}

	content, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer content.Close()

	url, err := store(currentOwnerID(c), service.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Content:     content,
	})
	if err != nil {
		a.handleServiceError(c, err, "profile not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "upload complete", "url": url})
}
