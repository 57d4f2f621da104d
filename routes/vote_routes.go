package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/votline/votline_backend/controllers"
)

// RegisterVoteRoutes sets up the voting endpoints
func RegisterVoteRoutes(e *echo.Echo, voteController *controllers.VoteController) {
	e.POST("/requestOtp", voteController.RequestOTP)
	e.POST("/verifyOtp", voteController.VerifyOTP)
	e.POST("/resetVotes", voteController.ResetVotes)
}
