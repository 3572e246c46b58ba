package sqlidentity_test

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	sqlidentity "github.com/goliatone/go-sql-identity"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockSessions implements sqlidentity.Sessions
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) FindByToken(ctx context.Context, token string, criteria ...repository.SelectCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, token, criteria)
	record, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return record, args.Error(1)
}

func (m *MockSessions) FindByTokenTx(ctx context.Context, tx bun.IDB, token string, criteria ...repository.SelectCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, tx, token, criteria)
	record, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return record, args.Error(1)
}

func (m *MockSessions) Create(ctx context.Context, record *sqlidentity.SessionRecord, criteria ...repository.InsertCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, record, criteria)
	created, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return created, args.Error(1)
}

func (m *MockSessions) CreateTx(ctx context.Context, tx bun.IDB, record *sqlidentity.SessionRecord, criteria ...repository.InsertCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, tx, record, criteria)
	created, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return created, args.Error(1)
}

func (m *MockSessions) Update(ctx context.Context, record *sqlidentity.SessionRecord, criteria ...repository.UpdateCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, record, criteria)
	updated, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return updated, args.Error(1)
}

func (m *MockSessions) UpdateTx(ctx context.Context, tx bun.IDB, record *sqlidentity.SessionRecord, criteria ...repository.UpdateCriteria) (*sqlidentity.SessionRecord, error) {
	args := m.Called(ctx, tx, record, criteria)
	updated, _ := args.Get(0).(*sqlidentity.SessionRecord)
	return updated, args.Error(1)
}

func (m *MockSessions) DeleteByToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessions) DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) (int64, error) {
	args := m.Called(ctx, tx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessions) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type logCall struct {
	level   string
	message string
	args    []any
}

// spyLogger records log traffic so tests can assert on it.
type spyLogger struct {
	calls []logCall
}

func (l *spyLogger) record(level, message string, args ...any) {
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *spyLogger) Debug(format string, args ...any) { l.record("debug", format, args...) }
func (l *spyLogger) Info(format string, args ...any)  { l.record("info", format, args...) }
func (l *spyLogger) Warn(format string, args ...any)  { l.record("warn", format, args...) }
func (l *spyLogger) Error(format string, args ...any) { l.record("error", format, args...) }

func (l *spyLogger) leveled(level string) []logCall {
	var out []logCall
	for _, call := range l.calls {
		if call.level == level {
			out = append(out, call)
		}
	}
	return out
}
