package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// StoreError is the driver-level detail of a Postgres failure found in a chain.
type StoreError struct {
	SQLState   string `json:"sql_state"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump is err flattened for a log line.
type ErrorDump struct {
	Message string      `json:"message"`
	Code    Code        `json:"code,omitempty"`
	Chain   []string    `json:"chain,omitempty"`
	Store   *StoreError `json:"store,omitempty"`
}

// Dump walks the unwrap chain of err, recording every link and the first
// Postgres error from either pgx or lib/pq.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	dump := ErrorDump{Message: err.Error(), Store: storeError(err)}
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		dump.Chain = append(dump.Chain, fmt.Sprintf("%T: %v", link, link))
	}
	return dump
}

// LogFields renders the dump with the field names used in request and worker logs.
func (d ErrorDump) LogFields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = string(d.Code)
	}
	if s := d.Store; s != nil {
		fields["pg_code"] = s.SQLState
		fields["pg_constraint"] = s.Constraint
		fields["pg_table"] = s.Table
		fields["pg_column"] = s.Column
		fields["pg_detail"] = s.Detail
		fields["pg_message"] = s.Message
	}
	return fields
}

func storeError(err error) *StoreError {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &StoreError{
			SQLState:   pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreError{
			SQLState:   string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
