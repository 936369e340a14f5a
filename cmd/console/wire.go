//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/console"
)

func InitializeConsole() (*console.Server, error) {
	panic(wire.Build(console.ProviderSet))
}
