//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/relaybase/chat-api/internal/domain"
	"github.com/relaybase/chat-api/internal/domain/chat"
	"github.com/relaybase/chat-api/internal/infrastructure"
	"github.com/relaybase/chat-api/internal/infrastructure/inference"
	"github.com/relaybase/chat-api/internal/interfaces"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/handlers"
	"github.com/relaybase/chat-api/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		handlers.HandlerProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Bind(new(chat.Completer), new(*inference.CompletionGateway)),
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}

func CreateDataInitializer() (*DataInitializer, error) {
	wire.Build(
		infrastructure.InfrastructureProvider,
		wire.Struct(new(DataInitializer), "*"),
	)
	return &DataInitializer{}, nil
}
