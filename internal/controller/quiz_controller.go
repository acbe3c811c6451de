package controller

import (
	"errors"
	"net/http"

	"tutorpress_backend/internal/quiz/wire"
	"tutorpress_backend/internal/repository"
	"tutorpress_backend/internal/service"
	"tutorpress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(s *service.QuizService) *QuizController {
	return &QuizController{Service: s}
}

func actorFrom(ctx *gin.Context) (service.Actor, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		return service.Actor{}, false
	}
	return service.Actor{UserID: user.UserID, Role: user.Role}, true
}

// respondError 把服务层错误映射为统一响应
func respondError(ctx *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		util.UnprocessableEntity(ctx, "quiz validation failed", verr.Errors)
	case errors.Is(err, util.ErrInvalidPayload):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, repository.ErrQuizNotFound),
		errors.Is(err, repository.ErrQuestionNotFound),
		errors.Is(err, repository.ErrAnswerNotFound),
		errors.Is(err, repository.ErrAttachmentNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

func pathID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return id, true
}

// @Summary 保存测验
// @Description 一次请求保存整个测验；新建的题目和选项使用负数临时ID，返回的规范数据按数组位置对应
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body wire.QuizPayload true "测验"
// @Success 200 {object} util.Response{data=wire.QuizPayload}
// @Failure 422 {object} util.Response{data=util.ValidationErrors}
// @Router /quizzes/save [post]
func (c *QuizController) Save(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req wire.QuizPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	out, err := c.Service.Save(ctx.Request.Context(), actor, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// @Summary 获取测验内容
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=wire.QuizPayload}
// @Router /quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	actor, ok := actorFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	out, err := c.Service.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// @Summary 删除测验
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), actor, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

func bindOrder(ctx *gin.Context) ([]int64, bool) {
	var req wire.OrderPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return nil, false
	}
	if len(req.Order) == 0 {
		util.Error(ctx, http.StatusBadRequest, "order is required")
		return nil, false
	}
	return req.Order, true
}

// @Summary 调整题目顺序
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param body body wire.OrderPayload true "题目ID的新顺序"
// @Success 200 {object} util.Response
// @Router /quizzes/{id}/questions/order [put]
func (c *QuizController) ReorderQuestions(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	order, ok := bindOrder(ctx)
	if !ok {
		return
	}
	if err := c.Service.ReorderQuestions(ctx.Request.Context(), actor, id, order); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, wire.OrderPayload{Order: order})
}

// @Summary 调整选项顺序
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body wire.OrderPayload true "选项ID的新顺序"
// @Success 200 {object} util.Response
// @Router /questions/{id}/answers/order [put]
func (c *QuizController) ReorderAnswers(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	order, ok := bindOrder(ctx)
	if !ok {
		return
	}
	if err := c.Service.ReorderAnswers(ctx.Request.Context(), actor, id, order); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, wire.OrderPayload{Order: order})
}
