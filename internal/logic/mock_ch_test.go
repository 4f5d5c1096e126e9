package logic

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockConn answers QueryRow with fixed values and records the last query
type MockConn struct {
	driver.Conn
	RowValues     []interface{}
	RowErr        error
	QueryRowCalls int
	LastQuery     string
	LastArgs      []interface{}
}

func (m *MockConn) QueryRow(ctx context.Context, query string, args ...interface{}) driver.Row {
	m.QueryRowCalls++
	m.LastQuery = query
	m.LastArgs = args
	return &MockRow{values: m.RowValues, err: m.RowErr}
}

type MockRow struct {
	driver.Row
	values []interface{}
	err    error
}

func (m *MockRow) Scan(dest ...interface{}) error {
	if m.err != nil {
		return m.err
	}
	for i, val := range m.values {
		if i < len(dest) {
			assign(dest[i], val)
		}
	}
	return nil
}

func (m *MockRow) Err() error {
	return m.err
}

func assign(dest interface{}, val interface{}) {
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.ValueOf(val))
}
