package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/smallbiznis/bookline/internal/migration"
	"github.com/smallbiznis/bookline/internal/observability"
	"github.com/smallbiznis/bookline/internal/scheduler"
	"github.com/smallbiznis/bookline/internal/server"
	"github.com/smallbiznis/bookline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
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
