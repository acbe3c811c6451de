package controller

import (
	"errors"

	"tutorpress_backend/internal/service"
	"tutorpress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	Service *service.MediaService
}

func NewMediaController(s *service.MediaService) *MediaController {
	return &MediaController{Service: s}
}

// @Summary 上传媒体文件
// @Description 仅接受图片，类型按文件内容检测
// @Tags 媒体库
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response{data=wire.Attachment}
// @Router /media [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	att, err := c.Service.Upload(ctx.Request.Context(), user.UserID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		if errors.Is(err, util.ErrFileTooLarge) || errors.Is(err, util.ErrInvalidFileType) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, att)
}

// @Summary 获取媒体文件信息
// @Tags 媒体库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "附件ID"
// @Success 200 {object} util.Response{data=wire.Attachment}
// @Router /media/{id} [get]
func (c *MediaController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	att, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, att)
}
