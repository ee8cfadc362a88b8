package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
)

// Store persists passcode records.
//
// Implementations must give read-after-write visibility per key and must make
// MarkPasscodeVerified a conditional write: it sets verified_time only when it
// is still unset and reports whether this call won the update.
type Store interface {
	CreatePasscode(ctx context.Context, pc entity.Passcode) error
	GetPasscode(ctx context.Context, id string) (*entity.Passcode, error)
	MarkPasscodeVerified(ctx context.Context, id string, verifiedTime int64) (bool, error)
}

// Options carries the connections a driver may need. Only the connection for
// the selected driver has to be non-nil.
type Options struct {
	Postgres   *pgxpool.Pool
	Redis      *redis.Client
	Instrument instrument.Instrumentation

	// Retention is extra lifetime granted to redis records past their expiry
	// window so late verify attempts still get a precise failure reason
	// instead of a generic not-found. Zero keeps records forever.
	Retention time.Duration
}

// New selects a Store driver: "postgres", "redis" or "memory".
func New(driver string, opts Options) (Store, error) {
	switch driver {
	case "postgres":
		if opts.Postgres == nil {
			return nil, fmt.Errorf("store: postgres driver requires a connection pool")
		}
		return NewPostgres(opts.Postgres, opts.Instrument), nil

	case "redis":
		if opts.Redis == nil {
			return nil, fmt.Errorf("store: redis driver requires a client")
		}
		return NewRedis(opts.Redis, opts.Instrument, opts.Retention), nil

	case "memory":
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}
