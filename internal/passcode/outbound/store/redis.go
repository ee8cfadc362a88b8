package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/passbite/internal/passcode/entity"
	"github.com/shandysiswandi/passbite/internal/pkg/goerror"
	"github.com/shandysiswandi/passbite/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const redisKeyPrefix = "passcode:"

// consumeScript sets verified_time atomically, only when it is still unset.
// Returns 0 when the key is gone or already consumed, 1 on success. The
// remaining TTL is carried over so consumption never extends retention.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
local rec = cjson.decode(raw)
if rec.verified_time ~= 0 then
  return 0
end
rec.verified_time = tonumber(ARGV[1])
local ttl = redis.call("PTTL", KEYS[1])
redis.call("SET", KEYS[1], cjson.encode(rec))
if ttl > 0 then
  redis.call("PEXPIRE", KEYS[1], ttl)
end
return 1
`)

type redisRecord struct {
	ID             string `json:"id"`
	IssuerToken    string `json:"issuer_token"`
	Code           string `json:"code"`
	ExpireDuration int64  `json:"expire_duration"`
	CreateTime     int64  `json:"create_time"`
	VerifiedTime   int64  `json:"verified_time"`
}

// Redis is a Store keeping passcode records as JSON values.
type Redis struct {
	client    *redis.Client
	ins       instrument.Instrumentation
	retention time.Duration
}

func NewRedis(client *redis.Client, ins instrument.Instrumentation, retention time.Duration) *Redis {
	return &Redis{client: client, ins: ins, retention: retention}
}

func (s *Redis) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("passcode.outbound.store").Start(ctx, name)
}

func (s *Redis) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Redis) CreatePasscode(ctx context.Context, pc entity.Passcode) (err error) {
	ctx, span := s.startSpan(ctx, "CreatePasscode")
	defer func() { s.endSpan(span, err) }()

	raw, err := json.Marshal(redisRecord{
		ID:             pc.ID,
		IssuerToken:    pc.IssuerToken,
		Code:           pc.Code,
		ExpireDuration: pc.ExpireDuration,
		CreateTime:     pc.CreateTime,
		VerifiedTime:   pc.VerifiedTime,
	})
	if err != nil {
		return err
	}

	var ttl time.Duration
	if s.retention > 0 {
		ttl = time.Duration(pc.ExpireDuration)*time.Second + s.retention
	}

	err = s.client.Set(ctx, redisKeyPrefix+pc.ID, raw, ttl).Err()
	return err
}

func (s *Redis) GetPasscode(ctx context.Context, id string) (pc *entity.Passcode, err error) {
	ctx, span := s.startSpan(ctx, "GetPasscode")
	defer func() { s.endSpan(span, err) }()

	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		err = goerror.ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var rec redisRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	return &entity.Passcode{
		ID:             rec.ID,
		IssuerToken:    rec.IssuerToken,
		Code:           rec.Code,
		ExpireDuration: rec.ExpireDuration,
		CreateTime:     rec.CreateTime,
		VerifiedTime:   rec.VerifiedTime,
	}, nil
}

func (s *Redis) MarkPasscodeVerified(ctx context.Context, id string, verifiedTime int64) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkPasscodeVerified")
	defer func() { s.endSpan(span, err) }()

	res, err := consumeScript.Run(ctx, s.client, []string{redisKeyPrefix + id}, verifiedTime).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}
