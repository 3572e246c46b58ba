package sqlidentity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionRecord is the persisted session model. The token column is unique
// across the table and is the only value clients ever see; id is a synthetic
// key so a live session can rotate its token in place. The id column is a
// varchar(36) so the schema is identical on SQLite, PostgreSQL, and MySQL.
//
// ip and user_agent record request provenance and may be null.
type SessionRecord struct {
	bun.BaseModel `bun:"table:identities,alias:ident"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:varchar(36)" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"token,omitempty"`
	Subject       string     `bun:"subject,notnull" json:"subject,omitempty"`
	IP            *string    `bun:"ip" json:"ip,omitempty"`
	UserAgent     *string    `bun:"user_agent" json:"user_agent,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	ModifiedAt    *time.Time `bun:"modified_at,nullzero,default:current_timestamp" json:"modified_at,omitempty"`
}
