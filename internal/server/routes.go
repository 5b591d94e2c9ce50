package server

import (
	"github.com/nulzo/shem-api/internal/server/middleware"
	v1 "github.com/nulzo/shem-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/api")
	{
		chatHandler := v1.NewChatHandler(s.service, s.validator)
		api.POST("/chat", chatHandler.Chat)
		api.GET("/chat/providers", chatHandler.Providers)
	}
}
