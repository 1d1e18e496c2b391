package routes

import (
	"github.com/gin-gonic/gin"

	"uberfriends/internal/handlers"
	"uberfriends/internal/middleware"
)

// SetupRideRoutes sets up booking, history and driver availability routes.
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, driverHandler *handlers.DriverHandler, jwtSecret string) {
	rides := r.Group("/")
	rides.Use(middleware.AuthRequired(jwtSecret))
	{
		rides.POST("/book-ride", rideHandler.BookRide)
		rides.GET("/users/rides", rideHandler.RideHistory)
	}

	driver := r.Group("/driver")
	driver.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		driver.PUT("/status", driverHandler.UpdateStatus)
	}
}
