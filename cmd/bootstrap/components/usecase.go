package components

import (
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/usecase"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		func(uowImpl shared.UnitOfWork, store queries.BookReadStore, cfg config.Config) commands.BookCommands {
			return commands.NewBookCommands(uowImpl, store, cfg.Library.MaxCoverBytes)
		},
		func(uowImpl shared.UnitOfWork, store queries.LoanReadStore, clk clock.Clock, cfg config.Config) commands.LoanCommands {
			return commands.NewLoanCommands(uowImpl, store, clk, cfg.Library)
		},
		func(uowImpl shared.UnitOfWork, store queries.ReservationReadStore, clk clock.Clock, cfg config.Config) commands.ReservationCommands {
			return commands.NewReservationCommands(uowImpl, store, clk, cfg.Library)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookQueries,
		queries.NewLoanQueries,
		queries.NewReservationQueries,
		queries.NewUserQueries,
		queries.NewAdminQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
