package web

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

// Deps are the collaborators needed to assemble the API.
type Deps struct {
	Store  *repositories.Store
	Index  services.SongIndex // optional
	Hasher *services.PasswordHasher
	Logger *log.Logger
	Server shared.ServerConfig
}

// App is the assembled API: services plus the router serving them.
type App struct {
	Artists *services.ArtistService
	Songs   *services.SongService
	Users   *services.UserService
	Router  *server.BasicRouter
}

// NewApp wires gateways, services and handlers over one shared store and registers every route.
func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = log.Default()
	}

	artistRepo := repositories.NewArtistRepository(d.Store)
	songRepo := repositories.NewSongRepository(d.Store)
	userRepo := repositories.NewUserRepository(d.Store)

	songs := services.NewSongService(artistRepo, songRepo, d.Index, shared.WithLogger(d.Logger, "service", "songs"))

	app := &App{
		Artists: services.NewArtistService(artistRepo, songs),
		Songs:   songs,
		Users:   services.NewUserService(userRepo, d.Hasher),
		Router:  server.NewBasicRouter(),
	}

	resp := NewResponder(shared.WithLogger(d.Logger, "component", "web"))

	app.Router.Use(server.Defaults(d.Logger, d.Server)...)
	Register(app.Router,
		NewArtistHandler(app.Artists, app.Songs, resp),
		NewSongHandler(app.Songs, resp),
		NewUserHandler(app.Users, resp),
		NewHealthHandler(d.Store, resp),
	)
	return app
}
