package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// serverError logs err and answers 500 with the raw error message.
func serverError(ctx *gin.Context, code int, err error) {
	utils.Sugar.Errorw("request failed",
		"path", ctx.FullPath(),
		"method", ctx.Request.Method,
		"code", code,
		"error", err,
	)
	utils.Error(ctx, http.StatusInternalServerError, code, err.Error())
}
