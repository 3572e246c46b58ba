package sqlidentity

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the persistence surface the identity layer depends on. It is
// deliberately narrow: resolving a token plus create, rotate, and revoke is
// everything the middleware ever does.
type Sessions interface {
	FindByToken(ctx context.Context, token string, criteria ...repository.SelectCriteria) (*SessionRecord, error)
	FindByTokenTx(ctx context.Context, tx bun.IDB, token string, criteria ...repository.SelectCriteria) (*SessionRecord, error)
	Create(ctx context.Context, record *SessionRecord, criteria ...repository.InsertCriteria) (*SessionRecord, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *SessionRecord, criteria ...repository.InsertCriteria) (*SessionRecord, error)
	Update(ctx context.Context, record *SessionRecord, criteria ...repository.UpdateCriteria) (*SessionRecord, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *SessionRecord, criteria ...repository.UpdateCriteria) (*SessionRecord, error)
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) (int64, error)
	EnsureSchema(ctx context.Context) error
}

type sessions struct {
	repository.Repository[*SessionRecord]
	db     *bun.DB
	logger Logger
	now    func() time.Time
}

var _ Sessions = (*sessions)(nil)

type SessionsOption func(*sessions)

// WithSessionsLogger overrides the logger used for store-level warnings.
func WithSessionsLogger(logger Logger) SessionsOption {
	return func(s *sessions) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionsClock injects a custom clock (useful for tests).
func WithSessionsClock(clock func() time.Time) SessionsOption {
	return func(s *sessions) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewSessionsRepository(db *bun.DB, opts ...SessionsOption) Sessions {
	repo := repository.NewRepository[*SessionRecord](db, repository.ModelHandlers[*SessionRecord]{
		NewRecord: func() *SessionRecord { return &SessionRecord{} },
		GetID: func(r *SessionRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *SessionRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	repoSessions := &sessions{
		Repository: repo,
		db:         db,
		logger:     defLogger{},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoSessions)
		}
	}

	return repoSessions
}

// FindByToken resolves a token to exactly one stored session. Zero matches
// and more than one match both come back as ErrSessionNotFound; callers must
// not be able to tell the difference.
func (s *sessions) FindByToken(ctx context.Context, token string, criteria ...repository.SelectCriteria) (*SessionRecord, error) {
	return s.FindByTokenTx(ctx, s.db, token, criteria...)
}

func (s *sessions) FindByTokenTx(ctx context.Context, tx bun.IDB, token string, criteria ...repository.SelectCriteria) (*SessionRecord, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	var records []*SessionRecord
	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q = q.Apply(c)
	}

	err := q.
		Where("?TableAlias.token = ?", token).
		Limit(2).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	switch len(records) {
	case 1:
		return records[0], nil
	case 0:
		return nil, ErrSessionNotFound
	default:
		// the unique index makes more than one match a schema bug
		s.logger.Warn("token resolved to %d sessions, treating as not found", len(records))
		return nil, ErrSessionNotFound
	}
}

func (s *sessions) Create(ctx context.Context, record *SessionRecord, criteria ...repository.InsertCriteria) (*SessionRecord, error) {
	return s.CreateTx(ctx, s.db, record, criteria...)
}

func (s *sessions) CreateTx(ctx context.Context, tx bun.IDB, record *SessionRecord, criteria ...repository.InsertCriteria) (*SessionRecord, error) {
	s.prepareDefaults(record)
	return s.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (s *sessions) Update(ctx context.Context, record *SessionRecord, criteria ...repository.UpdateCriteria) (*SessionRecord, error) {
	return s.UpdateTx(ctx, s.db, record, criteria...)
}

// UpdateTx rotates a session in place, addressed by its id. Matching no rows
// is not a failure: the row raced away between resolve and write, and the
// caller's retry would be addressing a dead session either way.
func (s *sessions) UpdateTx(ctx context.Context, tx bun.IDB, record *SessionRecord, criteria ...repository.UpdateCriteria) (*SessionRecord, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, errors.New("session update requires a record id", errors.CategoryBadInput).
			WithTextCode(TextCodeBadConfig).
			WithCode(errors.CodeBadRequest)
	}

	now := s.now()
	record.ModifiedAt = &now

	criteria = append(criteria, repository.UpdateByID(record.ID.String()))

	updated, err := s.Repository.UpdateTx(ctx, tx, record, criteria...)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Warn("session update matched no rows id=%s", record.ID)
			return record, nil
		}
		return nil, err
	}

	return updated, nil
}

func (s *sessions) DeleteByToken(ctx context.Context, token string) (int64, error) {
	return s.DeleteByTokenTx(ctx, s.db, token)
}

func (s *sessions) DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}

	res, err := tx.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("?TableAlias.token = ?", token).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// EnsureSchema creates the identities table when missing. The DDL derives
// from the model so all three engines get the same shape.
func (s *sessions) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *sessions) prepareDefaults(record *SessionRecord) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := s.now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.ModifiedAt == nil {
		record.ModifiedAt = &now
	}
}
