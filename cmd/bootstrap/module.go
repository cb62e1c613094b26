package bootstrap

import (
	"hotel-reservation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var coreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
	QueueModule,
	components.UseCaseModule,
)

// APIModule serves the HTTP API.
var APIModule = fx.Options(
	coreModule,
	JWTModule,
	RedisModule,
	components.HandlerModule,
)

// WorkerProcessModule delivers notifications and runs scheduled jobs.
var WorkerProcessModule = fx.Options(
	coreModule,
	WorkerModule,
)
