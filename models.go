package registration

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record. It is created exactly once per distinct
// email; this package never updates or deletes it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// FullName returns the display name used for the mail recipient and the
// personal organization label.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Organization is the default owning group created 1:1 with a new user.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:org"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	CreatedBy     uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by,omitempty"`
	Creator       *User      `bun:"rel:belongs-to,join:created_by=id" json:"creator,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Membership binds exactly one user to one organization with a role.
type Membership struct {
	bun.BaseModel  `bun:"table:memberships,alias:mbr"`
	ID             uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         uuid.UUID      `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	OrganizationID uuid.UUID      `bun:"organization_id,notnull,type:uuid" json:"organization_id,omitempty"`
	Role           MembershipRole `bun:"role,notnull" json:"role,omitempty"`
	User           *User          `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Organization   *Organization  `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
	CreatedAt      *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PersonalOrganizationName derives the display name of the default
// organization from the candidate's name.
func PersonalOrganizationName(firstName, lastName string) string {
	return fmt.Sprintf("%s %s's personal organization", firstName, lastName)
}
