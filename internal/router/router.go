package router

import (
	"commune/internal/handler"
	"commune/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitRouter() *gin.Engine {
	r := gin.Default()

	community := handler.NewCommunityHandler()
	post := handler.NewPostHandler()
	comment := handler.NewCommentHandler()
	vote := handler.NewVoteHandler()
	moderation := handler.NewModerationHandler()

	// 读接口匿名可访问，私有社区的拦截在 service 层裁决
	read := r.Group("/api")
	read.Use(middleware.AuthOptional())
	{
		read.GET("/communities", community.List)
		read.GET("/communities/:slug", community.Get)
		read.GET("/communities/:slug/posts", post.List)
		read.GET("/posts/:id/comments", comment.List)
	}

	// 写接口必须登录
	write := r.Group("/api")
	write.Use(middleware.AuthRequired())
	{
		write.POST("/communities", community.Create)
		write.POST("/communities/:slug/join", moderation.Join)
		write.POST("/communities/:slug/leave", moderation.Leave)

		write.POST("/communities/:slug/posts", post.Create)
		write.DELETE("/posts/:id", post.Delete)
		write.POST("/posts/:id/comments", comment.Create)
		write.DELETE("/comments/:id", comment.Delete)

		write.POST("/posts/:id/vote", vote.VotePost)
		write.POST("/comments/:id/vote", vote.VoteComment)
		write.POST("/posts/:id/poll/vote", post.PollVote)

		// 版主操作
		write.POST("/communities/:slug/bans", moderation.Ban)
		write.DELETE("/communities/:slug/bans", moderation.Unban)
		write.GET("/communities/:slug/bans", moderation.Bans)
		write.GET("/communities/:slug/modlog", moderation.ModLog)
		write.POST("/posts/:id/remove", moderation.ModeratePost("remove"))
		write.POST("/posts/:id/restore", moderation.ModeratePost("restore"))
		write.POST("/posts/:id/lock", moderation.ModeratePost("lock"))
		write.POST("/posts/:id/unlock", moderation.ModeratePost("unlock"))
		write.POST("/posts/:id/pin", moderation.ModeratePost("pin"))
		write.POST("/posts/:id/unpin", moderation.ModeratePost("unpin"))
	}

	return r
}
