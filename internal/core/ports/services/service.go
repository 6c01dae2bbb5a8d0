package services

import (
	"github.com/SscSPs/persona_ledger/internal/core/commands"
)

// ServiceContainer holds instances of all the application services and
// command handlers. This is the main entry point for accessing service
// functionality and is used throughout the application, particularly in
// the HTTP handlers.
type ServiceContainer struct {
	Persona PersonaSvcFacade

	OpenAccount      commands.Handler[commands.OpenCoinhouseAccount]
	JoinAccount      commands.Handler[commands.JoinCoinhouseAccount]
	RemoveHolder     commands.Handler[commands.RemoveCoinhouseAccountHolder]
	UpdateHolderRole commands.Handler[commands.UpdateCoinhouseAccountHolderRole]

	RentProperty   commands.Handler[commands.RentProperty]
	RecordPresence commands.Handler[commands.RecordOccupantPresence]
	EvictProperty  commands.Handler[commands.EvictProperty]

	Properties PropertyQuerySvc
	Evictions  EvictionSchedulerSvc
}
