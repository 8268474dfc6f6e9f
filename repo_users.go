package registration

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// InsertOutcome is the tri-state result of a conditional insert. The
// duplicate case is an expected business outcome, not an error, so it
// travels in-band instead of as a constraint-violation signal.
type InsertOutcome int

const (
	// InsertUnknown means the insert did not run (an error occurred).
	InsertUnknown InsertOutcome = iota
	// InsertCreated means a new row was written.
	InsertCreated
	// InsertSkipped means a row with the same email already existed
	// and the statement was a no-op.
	InsertSkipped
)

// Users exposes persistence for user records.
type Users interface {
	repository.Repository[*User]

	CreateIfAbsent(ctx context.Context, record *User) (InsertOutcome, error)
	CreateIfAbsentTx(ctx context.Context, tx bun.IDB, record *User) (InsertOutcome, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) CreateIfAbsent(ctx context.Context, record *User) (InsertOutcome, error) {
	return a.CreateIfAbsentTx(ctx, a.db, record)
}

// CreateIfAbsentTx writes the user only if no row with that email
// exists. The condition rides on the statement itself, so the
// check and the write cannot race against concurrent attempts.
func (a *users) CreateIfAbsentTx(ctx context.Context, tx bun.IDB, record *User) (InsertOutcome, error) {
	prepareUserDefaults(record)

	res, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return InsertUnknown, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return InsertUnknown, err
	}

	if rows == 0 {
		return InsertSkipped, nil
	}

	return InsertCreated, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}
	return record, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
