package routes

import (
	"github.com/gin-gonic/gin"

	"uberfriends/internal/handlers"
	"uberfriends/internal/middleware"
)

// SetupMeetupRoutes sets up the meetup workflow routes.
func SetupMeetupRoutes(r *gin.RouterGroup, meetupHandler *handlers.MeetupHandler, jwtSecret string) {
	meetups := r.Group("/meetups")
	meetups.Use(middleware.AuthRequired(jwtSecret))
	{
		meetups.POST("/create", meetupHandler.Create)
		meetups.GET("/invites", meetupHandler.PendingInvites)
		meetups.POST("/invites/:id/respond", meetupHandler.Respond)
	}
}
