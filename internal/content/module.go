package content

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliolabs/folio/internal/content/inbound"
	"github.com/foliolabs/folio/internal/content/outbound/db"
	"github.com/foliolabs/folio/internal/content/usecase"
	"github.com/foliolabs/folio/internal/pkg/clock"
	"github.com/foliolabs/folio/internal/pkg/config"
	"github.com/foliolabs/folio/internal/pkg/instrument"
	"github.com/foliolabs/folio/internal/pkg/router"
	"github.com/foliolabs/folio/internal/pkg/storage"
	"github.com/foliolabs/folio/internal/pkg/uid"
	"github.com/foliolabs/folio/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbContent := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbContent,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Storage:    dep.Storage,
		UID:        dep.UID,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
