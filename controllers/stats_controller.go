package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/models"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

// StatsController reports aggregate row counts.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns user, post and comment counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount, postCount, commentCount int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		serverError(ctx, 50090, err)
		return
	}
	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		serverError(ctx, 50091, err)
		return
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		serverError(ctx, 50092, err)
		return
	}

	utils.Success(ctx, gin.H{
		"userCount":    userCount,
		"postCount":    postCount,
		"commentCount": commentCount,
	})
}
