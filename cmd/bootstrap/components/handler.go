package components

import (
	"biblio-api/internal/handler"
	"biblio-api/internal/handler/api"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/pkg/jwt"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(authCommands commands.AuthCommands, userQueries queries.UserQueries, jwtService *jwt.Service, cfg config.Config) *api.AuthHandler {
			return api.NewAuthHandler(authCommands, userQueries, jwtService, cfg.Cookie)
		},
		api.NewBookHandler,
		api.NewLoanHandler,
		api.NewReservationHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
