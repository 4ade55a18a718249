package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/model"
)

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root godoc
// @Summary Hello world
// @Tags health
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{Hello: "World"})
}
