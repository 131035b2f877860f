package v1

import (
	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/service"

	"github.com/gin-gonic/gin"
)

// @title Signup API
// @version 1.0
// @description Email verified account registration

// @BasePath /api

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandler(
	services *service.Services,
	config *config.Config,
) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// Init mounts the routes straight on the api group, the browser client calls /api/register.
func (h *Handler) Init(api *gin.RouterGroup) {
	h.initRegistrationRoutes(api)
}
