package logic

import (
	"context"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MockPgPool routes calls to per-test funcs and records Exec statements
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	ExecCalls []string
	ExecArgs  [][]any
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPgRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPgRow{Err: pgx.ErrNoRows}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls = append(m.ExecCalls, sql)
	m.ExecArgs = append(m.ExecArgs, args)
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// execCount counts recorded Exec calls whose SQL contains fragment
func (m *MockPgPool) execCount(fragment string) int {
	n := 0
	for _, sql := range m.ExecCalls {
		if strings.Contains(sql, fragment) {
			n++
		}
	}
	return n
}

// MockPgRows iterates over literal row values
type MockPgRows struct {
	Data  [][]any
	Index int
	// IterErr is reported by Err once the rows are exhausted
	IterErr error
}

func (r *MockPgRows) Close()                                       {}
func (r *MockPgRows) Err() error                                   { return r.IterErr }
func (r *MockPgRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *MockPgRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *MockPgRows) Values() ([]any, error)                       { return nil, nil }
func (r *MockPgRows) RawValues() [][]byte                          { return nil }
func (r *MockPgRows) Conn() *pgx.Conn                              { return nil }

func (r *MockPgRows) Next() bool {
	r.Index++
	return r.Index <= len(r.Data)
}

func (r *MockPgRows) Scan(dest ...any) error {
	if r.Index > len(r.Data) {
		return nil
	}
	scanInto(dest, r.Data[r.Index-1])
	return nil
}

// MockPgRow is a single QueryRow result
type MockPgRow struct {
	Values []any
	Err    error
}

func (r *MockPgRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	scanInto(dest, r.Values)
	return nil
}

func scanInto(dest []any, row []any) {
	for i, val := range row {
		if i < len(dest) {
			setDest(dest[i], val)
		}
	}
}

func setDest(dest any, val any) {
	if val == nil {
		return
	}
	v := reflect.ValueOf(dest).Elem()
	valV := reflect.ValueOf(val)

	// Nullable columns scan into pointer targets
	if v.Kind() == reflect.Ptr && valV.Kind() != reflect.Ptr {
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(valV.Convert(v.Type().Elem()))
		v.Set(p)
		return
	}
	if valV.Type().ConvertibleTo(v.Type()) {
		v.Set(valV.Convert(v.Type()))
	} else {
		v.Set(valV)
	}
}
