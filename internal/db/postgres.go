package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/config"

	_ "github.com/lib/pq"
)

func ConnectPostgres(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create schema if it doesn't exist
	createSchemaSQL := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", cfg.PostgresSchema)
	if _, err := db.Exec(createSchemaSQL); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Set search_path to use the schema
	setSearchPathSQL := fmt.Sprintf("SET search_path TO %s, public", cfg.PostgresSchema)
	if _, err := db.Exec(setSearchPathSQL); err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	// Run migrations
	if err := runMigrations(db, cfg.PostgresSchema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Printf("PostgreSQL connection established (database: %s, schema: %s)", cfg.PostgresDB, cfg.PostgresSchema)
	return db, nil
}

func runMigrations(db *sql.DB, schema string) error {
	log.Println("Running migrations...")

	migrations := []string{
		// Create customers table
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			signup_ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,

		// Create customer_auth table (login password + step-up PIN)
		`CREATE TABLE IF NOT EXISTS customer_auth (
			customer_id INTEGER PRIMARY KEY REFERENCES customers(id) ON DELETE CASCADE,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			pin_hash VARCHAR(255),
			last_login_ts TIMESTAMP
		)`,

		// Create merchants table
		`CREATE TABLE IF NOT EXISTS merchants (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			category VARCHAR(50),
			risk_tier VARCHAR(10) DEFAULT 'med'
		)`,

		// Create accounts table
		`CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			account_type VARCHAR(20) DEFAULT 'checking',
			balance DECIMAL(15, 2) DEFAULT 0.00,
			status VARCHAR(20) DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_accounts_customer_id ON accounts(customer_id)`,

		// Create devices table
		`CREATE TABLE IF NOT EXISTS devices (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			fingerprint VARCHAR(128) NOT NULL,
			label VARCHAR(100),
			first_seen_ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_seen_ts TIMESTAMP,
			UNIQUE (customer_id, fingerprint)
		)`,

		// Create transactions table
		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			transaction_id VARCHAR(50) UNIQUE NOT NULL,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			merchant_id INTEGER REFERENCES merchants(id),
			device_id INTEGER REFERENCES devices(id),
			amount DECIMAL(15, 2) NOT NULL,
			currency VARCHAR(3) DEFAULT 'USD',
			direction VARCHAR(6) NOT NULL DEFAULT 'debit',
			status VARCHAR(20) DEFAULT 'approved',
			ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_ts ON transactions(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,

		// Create alerts table. The unique pair keeps re-evaluation from
		// duplicating an alert for the same rule.
		`CREATE TABLE IF NOT EXISTS alerts (
			id SERIAL PRIMARY KEY,
			transaction_id INTEGER NOT NULL REFERENCES transactions(id),
			rule_code VARCHAR(50) NOT NULL,
			severity VARCHAR(10) NOT NULL DEFAULT 'high',
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			created_ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (transaction_id, rule_code)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_alerts_transaction_id ON alerts(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status)`,

		// Create alert_rules table (NULL account_id = global default row)
		`CREATE TABLE IF NOT EXISTS alert_rules (
			id SERIAL PRIMARY KEY,
			account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
			amount_threshold DECIMAL(15, 2) NOT NULL,
			spike_multiplier DECIMAL(6, 2) NOT NULL,
			lookback_days INTEGER NOT NULL
		)`,

		// Create notifications table (operator channel mirror)
		`CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			transaction_id INTEGER REFERENCES transactions(id),
			message TEXT NOT NULL,
			created_ts TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			delivered BOOLEAN DEFAULT FALSE
		)`,

		// Store-side detection procedures. Invoked best-effort by the rule
		// engine; they insert their own alert rows.
		`CREATE OR REPLACE FUNCTION rule_new_device(txn_id INTEGER) RETURNS VOID AS $$
		DECLARE
			v_account INTEGER;
			v_device INTEGER;
		BEGIN
			SELECT account_id, device_id INTO v_account, v_device
			FROM transactions WHERE id = txn_id;
			IF v_device IS NULL THEN
				RETURN;
			END IF;
			IF NOT EXISTS (
				SELECT 1 FROM transactions
				WHERE account_id = v_account AND device_id = v_device AND id <> txn_id
			) THEN
				INSERT INTO alerts (transaction_id, rule_code, severity, status, created_ts)
				VALUES (txn_id, 'NEW_DEVICE', 'med', 'open', NOW())
				ON CONFLICT (transaction_id, rule_code) DO NOTHING;
			END IF;
		END;
		$$ LANGUAGE plpgsql`,

		`CREATE OR REPLACE FUNCTION rule_velocity_3in2min(txn_id INTEGER) RETURNS VOID AS $$
		DECLARE
			v_account INTEGER;
			v_ts TIMESTAMP;
			v_count INTEGER;
		BEGIN
			SELECT account_id, ts INTO v_account, v_ts
			FROM transactions WHERE id = txn_id;
			SELECT COUNT(*) INTO v_count
			FROM transactions
			WHERE account_id = v_account
			  AND ts > v_ts - INTERVAL '2 minutes'
			  AND ts <= v_ts;
			IF v_count >= 3 THEN
				INSERT INTO alerts (transaction_id, rule_code, severity, status, created_ts)
				VALUES (txn_id, 'VELOCITY_3IN2MIN', 'high', 'open', NOW())
				ON CONFLICT (transaction_id, rule_code) DO NOTHING;
			END IF;
		END;
		$$ LANGUAGE plpgsql`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("Migrations completed successfully in schema: %s", schema)
	return nil
}
