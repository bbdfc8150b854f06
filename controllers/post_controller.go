package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/middleware"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/models"
	"github.com/Sebastien-Hanne/module4-nodejs-threadapi/utils"
)

const (
	postsListCacheNS  = "cache:posts:list"
	userPostsCacheFmt = "cache:user:%d:posts"
	listCacheTTL      = 10 * time.Minute
)

// PostController manages posts and their comments.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// CreatePost stores a post owned by the authenticated user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "title and content are required")
		return
	}

	title := utils.Sanitize(req.Title)
	content := utils.Sanitize(req.Content)
	if title == "" || content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title and content cannot be empty")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post := models.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := p.db.Create(&post).Error; err != nil {
		serverError(ctx, 50020, err)
		return
	}

	invalidatePostCaches(userID)
	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns every post with its author and comments, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	cacheKey := utils.VersionedKey(postsListCacheNS, utils.CacheVersion(postsListCacheNS))
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts := []models.Post{}
	err := p.db.
		Preload("Author").
		Preload("Comments", orderByID).
		Preload("Comments.Author").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		serverError(ctx, 50021, err)
		return
	}

	utils.CacheSetJSON(cacheKey, successEnvelope(posts), listCacheTTL)
	utils.Success(ctx, posts)
}

// ListUserPosts returns the posts of one user with their comments.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	userID, ok := parseID(ctx, "userId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid user id")
		return
	}

	ns := fmt.Sprintf(userPostsCacheFmt, userID)
	cacheKey := utils.VersionedKey(ns, utils.CacheVersion(ns))
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		serverError(ctx, 50060, err)
		return
	}

	posts := []models.Post{}
	err := p.db.
		Where("user_id = ?", userID).
		Preload("Comments", orderByID).
		Preload("Comments.Author").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		serverError(ctx, 50061, err)
		return
	}

	utils.CacheSetJSON(cacheKey, successEnvelope(posts), listCacheTTL)
	utils.Success(ctx, posts)
}

// DeletePost removes a post and its comments. Only the owner may delete it.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseID(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		serverError(ctx, 50030, err)
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40310, "you can only delete your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		serverError(ctx, 50031, err)
		return
	}

	invalidatePostCaches(post.UserID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment attaches a comment by the authenticated user to an existing post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	postID, ok := parseID(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid post id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "content is required")
		return
	}
	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40042, "content cannot be empty")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		serverError(ctx, 50040, err)
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: content,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		serverError(ctx, 50041, err)
		return
	}

	invalidatePostCaches(post.UserID)
	utils.Created(ctx, gin.H{"comment": comment})
}

// DeleteComment removes a comment. Only its owner may delete it.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseID(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid comment id")
		return
	}

	var cmt models.Comment
	if err := p.db.First(&cmt, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "comment not found")
			return
		}
		serverError(ctx, 50050, err)
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}
	if cmt.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only delete your own comments")
		return
	}

	if err := p.db.Delete(&cmt).Error; err != nil {
		serverError(ctx, 50051, err)
		return
	}

	var post models.Post
	if err := p.db.Select("id", "user_id").First(&post, cmt.PostID).Error; err == nil {
		invalidatePostCaches(post.UserID)
	} else {
		utils.BumpCacheVersion(postsListCacheNS)
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// successEnvelope mirrors utils.Success so cached bytes can be served verbatim.
func successEnvelope(data interface{}) utils.JSONResponse {
	return utils.JSONResponse{Code: 0, Message: "success", Data: data}
}

func invalidatePostCaches(ownerID uint) {
	utils.BumpCacheVersion(postsListCacheNS)
	utils.BumpCacheVersion(fmt.Sprintf(userPostsCacheFmt, ownerID))
}
