package controller

import (
	"tutorpress_backend/internal/service"
	"tutorpress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionTypeController struct {
	Service *service.QuestionTypeService
}

func NewQuestionTypeController(s *service.QuestionTypeService) *QuestionTypeController {
	return &QuestionTypeController{Service: s}
}

// @Summary 获取题型目录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]wire.QuestionTypeInfo}
// @Router /question-types [get]
func (c *QuestionTypeController) List(ctx *gin.Context) {
	util.Success(ctx, c.Service.List())
}
