package registration

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Organizations exposes persistence for organization records.
type Organizations interface {
	repository.Repository[*Organization]
}

// Memberships exposes persistence for the user/organization relation.
type Memberships interface {
	repository.Repository[*Membership]

	CountForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int, error)
}

type organizations struct {
	repository.Repository[*Organization]
	db *bun.DB
}

var _ Organizations = (*organizations)(nil)

func NewOrganizationsRepository(db *bun.DB) Organizations {
	repo := repository.NewRepository[*Organization](db, repository.ModelHandlers[*Organization]{
		NewRecord: func() *Organization { return &Organization{} },
		GetID: func(o *Organization) uuid.UUID {
			if o == nil {
				return uuid.Nil
			}
			return o.ID
		},
		SetID: func(o *Organization, id uuid.UUID) {
			if o != nil {
				o.ID = id
			}
		},
	})

	return &organizations{
		Repository: repo,
		db:         db,
	}
}

func (a *organizations) Create(ctx context.Context, record *Organization, criteria ...repository.InsertCriteria) (*Organization, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *organizations) CreateTx(ctx context.Context, tx bun.IDB, record *Organization, criteria ...repository.InsertCriteria) (*Organization, error) {
	prepareOrganizationDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

type memberships struct {
	repository.Repository[*Membership]
	db *bun.DB
}

var _ Memberships = (*memberships)(nil)

func NewMembershipsRepository(db *bun.DB) Memberships {
	repo := repository.NewRepository[*Membership](db, repository.ModelHandlers[*Membership]{
		NewRecord: func() *Membership { return &Membership{} },
		GetID: func(m *Membership) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *Membership, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &memberships{
		Repository: repo,
		db:         db,
	}
}

func (a *memberships) Create(ctx context.Context, record *Membership, criteria ...repository.InsertCriteria) (*Membership, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *memberships) CreateTx(ctx context.Context, tx bun.IDB, record *Membership, criteria ...repository.InsertCriteria) (*Membership, error) {
	prepareMembershipDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *memberships) CountForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int, error) {
	return tx.NewSelect().
		Model((*Membership)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Count(ctx)
}

func prepareOrganizationDefaults(record *Organization) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func prepareMembershipDefaults(record *Membership) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Role == "" {
		record.Role = InitialMembershipRole
	}
}
