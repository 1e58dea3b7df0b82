// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/application/story"
	"velours-story-api/internal/interfaces/http/dto"
	apperrors "velours-story-api/pkg/errors"
)

// renderError 统一错误渲染:校验错误 422,AppError 按错误码映射,其余 500。
func renderError(c *gin.Context, err error) {
	var ve *story.ValidationError
	if errors.As(err, &ve) {
		dto.ErrorWithDetail(c, http.StatusUnprocessableEntity, "request validation failed", &dto.ErrorDetail{
			ErrorCode: string(apperrors.CodeValidationFailed),
			Details:   ve.Error(),
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	dto.Error(c, http.StatusInternalServerError, "internal server error")
}
