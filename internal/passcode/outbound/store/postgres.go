package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Postgres is a Store backed by a passcodes table.
type Postgres struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewPostgres(conn *pgxpool.Pool, ins instrument.Instrumentation) *Postgres {
	return &Postgres{conn: conn, ins: ins}
}

func (s *Postgres) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *Postgres) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("passcode.outbound.store").Start(ctx, name)
}

func (s *Postgres) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Postgres) CreatePasscode(ctx context.Context, pc entity.Passcode) (err error) {
	ctx, span := s.startSpan(ctx, "CreatePasscode")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO passcodes (id, issuer_token, code, expire_duration, create_time, verified_time)
		VALUES ($1, $2, $3, $4, $5, 0)`

	_, err = s.conn.Exec(ctx, query, pc.ID, pc.IssuerToken, pc.Code, pc.ExpireDuration, pc.CreateTime)
	err = s.mapError(err)
	return err
}

func (s *Postgres) GetPasscode(ctx context.Context, id string) (pc *entity.Passcode, err error) {
	ctx, span := s.startSpan(ctx, "GetPasscode")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, issuer_token, code, expire_duration, create_time, verified_time
		FROM passcodes
		WHERE id = $1`

	var out entity.Passcode
	err = s.conn.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.IssuerToken,
		&out.Code,
		&out.ExpireDuration,
		&out.CreateTime,
		&out.VerifiedTime,
	)
	if err = s.mapError(err); err != nil {
		return nil, err
	}

	return &out, nil
}

// MarkPasscodeVerified consumes the passcode with a conditional update so two
// racing callers can never both win.
func (s *Postgres) MarkPasscodeVerified(ctx context.Context, id string, verifiedTime int64) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkPasscodeVerified")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE passcodes
		SET verified_time = $2
		WHERE id = $1 AND verified_time = 0`

	tag, err := s.conn.Exec(ctx, query, id, verifiedTime)
	if err = s.mapError(err); err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
