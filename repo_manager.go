package registration

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories plus the transaction
// boundary. The provisioning transaction exclusively owns the
// user/organization/membership write-set for the duration of RunInTx.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Organizations() Organizations
	Memberships() Memberships
}

type mngr struct {
	db            *bun.DB
	users         Users
	organizations Organizations
	memberships   Memberships
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:            db,
		users:         NewUsersRepository(db),
		organizations: NewOrganizationsRepository(db),
		memberships:   NewMembershipsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.organizations == nil {
		return errors.New("repository organizations should be initialized")
	}

	if m.memberships == nil {
		return errors.New("repository memberships should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// RunInTx rolls back on any error return and commits otherwise. It
// refuses to start once the context is already done so a disconnected
// caller never opens a transaction it cannot finish.
func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Organizations() Organizations {
	return m.organizations
}

func (m mngr) Memberships() Memberships {
	return m.memberships
}
