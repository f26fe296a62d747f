package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBRuleRunner invokes store-side detection procedures by name. The
// procedures insert their own alert rows; callers treat invocation as
// best-effort.
type DBRuleRunner struct {
	db *sql.DB
}

func NewDBRuleRunner(db *sql.DB) *DBRuleRunner {
	return &DBRuleRunner{db: db}
}

// procedures that may be invoked through Run. Guards the identifier that
// gets interpolated into the statement.
var knownProcedures = map[string]bool{
	"rule_new_device":       true,
	"rule_velocity_3in2min": true,
}

func (r *DBRuleRunner) Run(ctx context.Context, procedure string, transactionID int) error {
	if !knownProcedures[procedure] {
		return fmt.Errorf("unknown rule procedure %q", procedure)
	}
	_, err := r.db.ExecContext(ctx, fmt.Sprintf("SELECT %s($1)", procedure), transactionID)
	return err
}
