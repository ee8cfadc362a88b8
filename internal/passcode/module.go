package passcode

import (
	"github.com/shandysiswandi/passbite/internal/passcode/inbound"
	"github.com/shandysiswandi/passbite/internal/passcode/outbound/mq"
	"github.com/shandysiswandi/passbite/internal/passcode/outbound/sms"
	"github.com/shandysiswandi/passbite/internal/passcode/outbound/store"
	"github.com/shandysiswandi/passbite/internal/passcode/usecase"
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

type Dependency struct {
	Store      store.Store                `validate:"required"`
	SMS        sms.Sender                 `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Gate       gate.AccessGate            `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMsg := mq.NewMessaging(dep.Messaging, dep.UID, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoStore:     dep.Store,
		RepoMessaging: repoMsg,
		SMS:           dep.SMS,
		Gate:          dep.Gate,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Goroutine:     dep.Goroutine,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
