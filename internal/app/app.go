package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/passbite/internal/passcode/outbound/sms"
	"github.com/shandysiswandi/passbite/internal/passcode/outbound/store"
	"github.com/shandysiswandi/passbite/internal/pkg/clock"
	"github.com/shandysiswandi/passbite/internal/pkg/config"
	"github.com/shandysiswandi/passbite/internal/pkg/gate"
	"github.com/shandysiswandi/passbite/internal/pkg/goroutine"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"github.com/shandysiswandi/passbite/internal/pkg/messaging"
	"github.com/shandysiswandi/passbite/internal/pkg/router"
	"github.com/shandysiswandi/passbite/internal/pkg/uid"
	"github.com/shandysiswandi/passbite/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	gate      gate.AccessGate

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	messaging messaging.Messaging
	store     store.Store
	sms       sms.Sender

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initStore()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
