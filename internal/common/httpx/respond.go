package httpx

import (
	"net/http"
	"strconv"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/gin-gonic/gin"
)

// OK 统一成功响应结构。
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

// Created 创建成功响应。
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"code": 0, "data": data})
}

// Error 把业务错误分类翻译为 HTTP 状态码。
// 核心逻辑只返回 apperr 分类，状态码的映射只发生在这一处。
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		msg = err.Error()
	case apperr.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case apperr.KindConflict:
		status = http.StatusConflict
		msg = err.Error()
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
		msg = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg})
}

// BadRequest 请求体绑定/解析失败时的统一响应。
func BadRequest(c *gin.Context, err error) {
	msg := "bad request"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": msg,
	})
}

// Pagination 解析 page/page_size 查询参数，返回 offset/limit。
func Pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}
	return (page - 1) * size, size
}
