package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/mekadomus/aquaflow/internal/account"
	"github.com/mekadomus/aquaflow/internal/alert"
	"github.com/mekadomus/aquaflow/internal/clock"
	"github.com/mekadomus/aquaflow/internal/config"
	"github.com/mekadomus/aquaflow/internal/fluidmeter"
	"github.com/mekadomus/aquaflow/internal/logger"
	"github.com/mekadomus/aquaflow/internal/measurement"
	"github.com/mekadomus/aquaflow/internal/migration"
	"github.com/mekadomus/aquaflow/internal/notifier"
	"github.com/mekadomus/aquaflow/internal/providers/email"
	"github.com/mekadomus/aquaflow/internal/ratelimit"
	"github.com/mekadomus/aquaflow/internal/runmeta"
	"github.com/mekadomus/aquaflow/internal/server"
	"github.com/mekadomus/aquaflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		account.Module,
		fluidmeter.Module,
		measurement.Module,
		runmeta.Module,
		alert.Module,
		email.Module,
		notifier.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
