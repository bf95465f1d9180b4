// Package testutil provides shared constants and helpers for sqlkit tests.
package testutil

const (
	// TestError is a generic error message for test error scenarios.
	TestError = "test error"

	// TestConnectionRefused is the common network error message for connection failures.
	TestConnectionRefused = "connection refused"

	// TestHost is the standard localhost hostname for test environments.
	TestHost = "localhost"

	// TestLoggerLevelDisabled silences loggers built with logger.New.
	TestLoggerLevelDisabled = "disabled"
)

// Shared SQL used across database and tracking tests.
const (
	QuerySelectUsers     = "SELECT * FROM users"
	QuerySelectUserByID  = "SELECT * FROM users WHERE id = ?"
	QuerySelectUserNames = "SELECT name FROM users WHERE id = ?"
	QueryInsertUser      = "INSERT INTO users (name) VALUES (?)"
	QueryUpdateUsers     = "UPDATE users SET name = ? WHERE id = ?"
	QueryDeleteUser      = "DELETE FROM users WHERE id = ?"
)
