package components

import (
	"fmt"

	"hotel-reservation-engine/internal/domain/reservation"
	"hotel-reservation-engine/internal/infra/scheduler"
	"hotel-reservation-engine/internal/pkg/clock"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/usecase"
	"hotel-reservation-engine/internal/usecase/commands"
	"hotel-reservation-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	NewBookingClock,
	NewPriceCalculator,
	reservation.NewFactory,
	NewCodeGenerator,
	NewBookingPolicy,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		func(c commands.ReservationCommands) scheduler.StayCompleter { return c },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		func(reader queries.AvailabilityReader, factory *reservation.Factory, policy commands.BookingPolicy) queries.AvailabilityQueries {
			return queries.NewAvailabilityQueries(reader, factory, policy.ApplyRateOverrides)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewBookingClock reads "today" in the hotel's configured zone.
func NewBookingClock(cfg config.Config) (clock.Clock, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", cfg.Booking.TimeZone, err)
	}
	return clock.NewRealClockIn(loc), nil
}

func NewPriceCalculator(cfg config.Config) reservation.PriceCalculator {
	if cfg.Booking.ApplyRateOverrides {
		return reservation.NewOverrideAwareCalculator()
	}
	return reservation.NewNightlyRateCalculator()
}

func NewCodeGenerator(cfg config.Config) (reservation.CodeGenerator, error) {
	return reservation.NewRandomCodeGenerator(cfg.Booking.CodePrefix)
}

func NewBookingPolicy(cfg config.Config) commands.BookingPolicy {
	policy := commands.DefaultBookingPolicy()
	policy.CodeMaxAttempts = cfg.Booking.CodeMaxAttempts
	policy.CancellationLeadDays = cfg.Booking.CancellationLeadDays
	policy.ApplyRateOverrides = cfg.Booking.ApplyRateOverrides
	if cfg.Booking.IdempotencyTTL > 0 {
		policy.IdempotencyTTL = cfg.Booking.IdempotencyTTL
	}
	if cfg.Scheduler.BatchSize > 0 {
		policy.CompletionBatchSize = cfg.Scheduler.BatchSize
	}
	return policy
}
