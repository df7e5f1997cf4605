package civic

import (
	"github.com/casbin/casbin/v3"
	"github.com/ikiraro/portal/internal/civic/inbound"
	"github.com/ikiraro/portal/internal/civic/outbound/db"
	"github.com/ikiraro/portal/internal/civic/usecase"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/idempotency"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/router"
	"github.com/ikiraro/portal/internal/pkg/storage"
	"github.com/ikiraro/portal/internal/pkg/uid"
	"github.com/ikiraro/portal/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbCivic := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:      dbCivic,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Storage:     dep.Storage,
		Idempotency: dep.Idempotency,
		UUID:        dep.UUID,
		Clock:       dep.Clock,
		Instrument:  dep.Instrument,
		Enforcer:    dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
