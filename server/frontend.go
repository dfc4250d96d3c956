package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed frontend
var frontendFS embed.FS

func (s *Server) registerFrontendRoutes(e *echo.Echo) {
	sub, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		panic(err)
	}
	e.GET("/*", echo.WrapHandler(http.FileServer(http.FS(sub))))
}
