package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
)

// columnTypes maps the abstract column kinds to each engine's types. The
// schema statements below reference them by placeholder.
type columnTypes struct {
	hash   string
	blob   string
	uint32 string
	uint64 string
	flag   string
	real   string
}

func typesFor(engine string) columnTypes {
	switch engine {
	case config.EngineMySQL:
		return columnTypes{
			hash:   "VARCHAR(64)",
			blob:   "LONGBLOB",
			uint32: "INT UNSIGNED",
			uint64: "BIGINT UNSIGNED",
			flag:   "TINYINT(1)",
			real:   "DOUBLE",
		}
	case config.EnginePostgres:
		return columnTypes{
			hash:   "VARCHAR(64)",
			blob:   "BYTEA",
			uint32: "BIGINT",
			uint64: "BIGINT",
			flag:   "BOOLEAN",
			real:   "DOUBLE PRECISION",
		}
	default:
		return columnTypes{
			hash:   "TEXT",
			blob:   "BLOB",
			uint32: "INTEGER",
			uint64: "INTEGER",
			flag:   "INTEGER",
			real:   "REAL",
		}
	}
}

// InitSchema creates all tables and their foreign-key relationships inside
// one transaction. Re-running it on an existing schema is a no-op.
func (d *DB) InitSchema(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("init_schema", err, started)
	}()

	ct := typesFor(d.engine)

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS blocks (
			hash %[1]s NOT NULL,
			data %[2]s NOT NULL,
			PRIMARY KEY (hash)
		)`, ct.hash, ct.blob),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS blockchain (
			height %[1]s NOT NULL,
			hash %[2]s NOT NULL,
			utctimestamp %[1]s NOT NULL,
			PRIMARY KEY (height),
			FOREIGN KEY (hash) REFERENCES blocks (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.uint64, ct.hash),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS block_meta (
			hash %[1]s NOT NULL,
			prevHash %[1]s NOT NULL,
			baseReward %[2]s NOT NULL,
			difficulty %[2]s NOT NULL,
			majorVersion %[3]s NOT NULL,
			minorVersion %[3]s NOT NULL,
			nonce %[2]s NOT NULL,
			size %[2]s NOT NULL,
			alreadyGeneratedCoins %[2]s NOT NULL,
			alreadyGeneratedTransactions %[2]s NOT NULL,
			reward %[2]s NOT NULL,
			sizeMedian %[2]s NOT NULL,
			totalFeeAmount %[2]s NOT NULL,
			transactionsCumulativeSize %[2]s NOT NULL,
			transactionsCount %[2]s NOT NULL,
			orphan %[4]s NOT NULL,
			penalty %[5]s NOT NULL,
			PRIMARY KEY (hash),
			FOREIGN KEY (hash) REFERENCES blocks (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash, ct.uint64, ct.uint32, ct.flag, ct.real),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transactions (
			hash %[1]s NOT NULL,
			block_hash %[1]s NOT NULL,
			coinbase %[2]s NOT NULL,
			data %[3]s NOT NULL,
			PRIMARY KEY (hash),
			FOREIGN KEY (block_hash) REFERENCES blocks (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash, ct.flag, ct.blob),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transaction_meta (
			hash %[1]s NOT NULL,
			fee %[2]s NOT NULL,
			amount %[2]s NOT NULL,
			size %[2]s NOT NULL,
			PRIMARY KEY (hash),
			FOREIGN KEY (hash) REFERENCES transactions (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash, ct.uint64),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transaction_inputs (
			hash %[1]s NOT NULL,
			keyImage %[1]s NOT NULL,
			PRIMARY KEY (keyImage),
			FOREIGN KEY (hash) REFERENCES transactions (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transaction_outputs (
			hash %[1]s NOT NULL,
			idx %[2]s NOT NULL,
			amount %[3]s NOT NULL,
			outputKey %[1]s NOT NULL,
			globalIdx %[3]s,
			PRIMARY KEY (hash, idx),
			FOREIGN KEY (hash) REFERENCES transactions (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash, ct.uint32, ct.uint64),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transaction_paymentids (
			hash %[1]s NOT NULL,
			paymentId %[1]s NOT NULL,
			PRIMARY KEY (hash, paymentId),
			FOREIGN KEY (hash) REFERENCES transactions (hash) ON DELETE CASCADE ON UPDATE CASCADE
		)`, ct.hash),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transaction_pool (
			hash %[1]s NOT NULL,
			fee %[2]s NOT NULL,
			size %[2]s NOT NULL,
			amount %[2]s NOT NULL,
			data %[3]s NOT NULL,
			PRIMARY KEY (hash)
		)`, ct.hash, ct.uint64, ct.blob),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS information (
			idx %[1]s NOT NULL,
			data %[2]s NOT NULL,
			PRIMARY KEY (idx)
		)`, ct.hash, ct.blob),
	}

	// InnoDB indexes foreign-key columns implicitly and MySQL has no
	// CREATE INDEX IF NOT EXISTS, so the secondary indexes are issued only
	// where they are both needed and idempotent.
	if d.engine != config.EngineMySQL {
		statements = append(statements,
			`CREATE INDEX IF NOT EXISTS ix_blockchain_hash ON blockchain (hash)`,
			`CREATE INDEX IF NOT EXISTS ix_transactions_block_hash ON transactions (block_hash)`,
			`CREATE INDEX IF NOT EXISTS ix_transaction_outputs_amount ON transaction_outputs (amount)`,
		)
	}

	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range statements {
			if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
				return fmt.Errorf("create schema: %w", execErr)
			}
		}
		return nil
	})
	return err
}
