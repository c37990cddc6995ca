package r

import (
	"context"
	"database/sql"
)

func closed(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT 1")
	if err != nil {
		return err
	}
	defer rows.Close()
	return rows.Err()
}

func leaked(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT 1") // want `rows \(\*sql.Rows\) не закрывается`
	if err != nil {
		return err
	}
	return rows.Err()
}

func discarded(db *sql.DB) {
	_, _ = db.Query("SELECT 1") // want `результат \*sql.Rows отброшен`
}

func returned(db *sql.DB) (*sql.Rows, error) {
	rows, err := db.Query("SELECT 1")
	return rows, err
}

func inClosure(db *sql.DB) func() error {
	return func() error {
		rows, err := db.Query("SELECT 1") // want `rows \(\*sql.Rows\) не закрывается`
		if err != nil {
			return err
		}
		return rows.Err()
	}
}

func notRows(db *sql.DB) error {
	res, err := db.Exec("DELETE FROM t")
	if err != nil {
		return err
	}
	_, err = res.RowsAffected()
	return err
}
