package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pricebook/internal/config"
	"github.com/smallbiznis/pricebook/internal/migration"
	"github.com/smallbiznis/pricebook/internal/observability"
	"github.com/smallbiznis/pricebook/internal/seed"
	"github.com/smallbiznis/pricebook/internal/server"
	"github.com/smallbiznis/pricebook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
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
