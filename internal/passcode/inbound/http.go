package inbound

import (
	"context"

	"github.com/shandysiswandi/passbite/internal/passcode/usecase"
	"github.com/shandysiswandi/passbite/internal/pkg/router"
)

type uc interface {
	Send(ctx context.Context, in usecase.SendInput) (*usecase.SendOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/passcodes/send", end.Send)
	r.POST("/api/v1/passcodes/verify", end.Verify)
}
