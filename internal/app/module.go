package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/passbite/internal/passcode"
)

func (a *App) initModules() {
	if err := passcode.New(passcode.Dependency{
		Store:      a.store,
		SMS:        a.sms,
		Messaging:  a.messaging,
		Gate:       a.gate,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		UUID:       a.uuid,
		Clock:      a.clock,
		Goroutine:  a.goroutine,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module passcode", "error", err)
		os.Exit(1)
	}
}
