package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/daurulang/daurulang/internal/clock"
	"github.com/daurulang/daurulang/internal/config"
	"github.com/daurulang/daurulang/internal/migration"
	"github.com/daurulang/daurulang/internal/observability"
	"github.com/daurulang/daurulang/internal/server"
	"github.com/daurulang/daurulang/pkg/db"
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
