// Package mocks provides testify-based implementations of the database
// interfaces for tests that need to script failures sqlmock cannot produce.
package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/sqlkit/database/types"
)

var (
	_ types.Rows      = (*MockRows)(nil)
	_ types.Statement = (*MockStatement)(nil)
)

// MockRows is a scripted result cursor.
//
//	rows := &mocks.MockRows{}
//	rows.On("Next").Return(false).Once()
//	rows.On("Err").Return(nil)
//	rows.On("Close").Return(errors.New("broken pipe"))
type MockRows struct {
	mock.Mock
}

// Next implements types.Rows
func (m *MockRows) Next() bool {
	return m.Called().Bool(0)
}

// Scan implements types.Rows
func (m *MockRows) Scan(dest ...any) error {
	return m.Called(dest).Error(0)
}

// Columns implements types.Rows
func (m *MockRows) Columns() ([]string, error) {
	args := m.Called()
	cols, _ := args.Get(0).([]string)
	return cols, args.Error(1)
}

// Err implements types.Rows
func (m *MockRows) Err() error {
	return m.Called().Error(0)
}

// Close implements types.Rows
func (m *MockRows) Close() error {
	return m.Called().Error(0)
}

// MockStatement is a scripted prepared statement.
type MockStatement struct {
	mock.Mock
}

// Query implements types.Statement
func (m *MockStatement) Query(ctx context.Context, args ...any) (types.Rows, error) {
	arguments := m.Called(ctx, args)
	rows, _ := arguments.Get(0).(types.Rows)
	return rows, arguments.Error(1)
}

// Exec implements types.Statement
func (m *MockStatement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	arguments := m.Called(ctx, args)
	result, _ := arguments.Get(0).(sql.Result)
	return result, arguments.Error(1)
}

// Close implements types.Statement
func (m *MockStatement) Close() error {
	return m.Called().Error(0)
}

// ExpectClose sets up a Close expectation returning err.
func (m *MockStatement) ExpectClose(err error) *mock.Call {
	return m.On("Close").Return(err).Once()
}
