// AngelaMos | 2026
// unitofwork.go

package product

import (
	"context"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

// AuditRecorder appends one audit entry per call.
type AuditRecorder interface {
	Record(ctx context.Context, rec audit.Record) (*audit.Entry, error)
}

// UnitOfWork hands a mutation its repository and audit recorder. The
// transactional variant binds both to one database transaction so a
// failed audit append rolls the mutation back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository, recorder AuditRecorder) error) error
}

type directUnit struct {
	repo     Repository
	recorder AuditRecorder
}

func NewDirectUnitOfWork(repo Repository, recorder AuditRecorder) UnitOfWork {
	return directUnit{repo: repo, recorder: recorder}
}

func (u directUnit) Do(
	_ context.Context,
	fn func(repo Repository, recorder AuditRecorder) error,
) error {
	return fn(u.repo, u.recorder)
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx core.DBTX) error) error
}

type txUnit struct {
	db    TxRunner
	audit *audit.Service
}

func NewTxUnitOfWork(db TxRunner, auditSvc *audit.Service) UnitOfWork {
	return txUnit{db: db, audit: auditSvc}
}

func (u txUnit) Do(
	ctx context.Context,
	fn func(repo Repository, recorder AuditRecorder) error,
) error {
	return u.db.WithTx(ctx, func(tx core.DBTX) error {
		return fn(
			NewRepository(tx),
			u.audit.WithRepository(audit.NewRepository(tx)),
		)
	})
}
