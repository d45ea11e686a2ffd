package markov

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// SetupSchema initializes the snapshot tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS markov_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    model_order INTEGER NOT NULL
);
`
		schemaVocab = `
CREATE TABLE IF NOT EXISTS markov_vocabulary (
    model_id INTEGER NOT NULL,
    token_id INTEGER NOT NULL,
    token_text TEXT NOT NULL,
    PRIMARY KEY (model_id, token_id)
);
`
		schemaContexts = `
CREATE TABLE IF NOT EXISTS markov_contexts (
    model_id INTEGER NOT NULL,
    context_id INTEGER NOT NULL,
    context_text TEXT NOT NULL,
    PRIMARY KEY (model_id, context_id)
);
`
		schemaEdges = `
CREATE TABLE IF NOT EXISTS markov_edges (
    model_id INTEGER NOT NULL,
    context_id INTEGER NOT NULL,
    next_token_id INTEGER NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (model_id, context_id, next_token_id)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, schema := range []string{schemaModels, schemaVocab, schemaContexts, schemaEdges} {
		if _, err = tx.Exec(schema); err != nil {
			return fmt.Errorf("could not create schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// WriteSnapshot stores the model's vocabulary, contexts and aggregated edge
// frequencies under name, replacing any earlier snapshot of that name. The
// snapshot is meant for offline inspection with SQL; nothing reads it back.
// The whole write happens in one transaction.
func WriteSnapshot(ctx context.Context, db *sql.DB, name string, m *Model) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for snapshot: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = removeSnapshot(ctx, tx, name); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO markov_models (model_name, model_order) VALUES (?, ?)", name, m.order)
	if err != nil {
		return fmt.Errorf("failed to insert model '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read id of model '%s': %w", name, err)
	}
	modelID := int(id)

	stmtVocab, err := tx.PrepareContext(ctx, `INSERT INTO markov_vocabulary (model_id, token_id, token_text) VALUES (?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare vocabulary insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtVocab)

	stmtContext, err := tx.PrepareContext(ctx, `INSERT INTO markov_contexts (model_id, context_id, context_text) VALUES (?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare context insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtContext)

	stmtEdge, err := tx.PrepareContext(ctx, `
		INSERT INTO markov_edges (model_id, context_id, next_token_id, frequency) VALUES (?, ?, ?, ?)
		ON CONFLICT(model_id, context_id, next_token_id) DO UPDATE SET frequency = frequency + excluded.frequency;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtEdge)

	alphabet := m.tokenizer.Alphabet()
	for tokenID := 0; tokenID < alphabet.Len(); tokenID++ {
		text := alphabet.mustTranslate(Token(tokenID))
		if _, err = stmtVocab.ExecContext(ctx, modelID, tokenID, text); err != nil {
			return fmt.Errorf("failed to insert vocabulary token %d: %w", tokenID, err)
		}
	}

	var keyBuf []byte
	var edgeRows int
	for contextID, c := range m.sortedContexts() {
		keyBuf = keyBuf[:0]
		for j, tokenID := range c[:m.order] {
			if j > 0 {
				keyBuf = append(keyBuf, ' ')
			}
			keyBuf = strconv.AppendUint(keyBuf, uint64(tokenID), 10)
		}
		if _, err = stmtContext.ExecContext(ctx, modelID, contextID, string(keyBuf)); err != nil {
			return fmt.Errorf("failed to insert context '%s': %w", keyBuf, err)
		}

		for _, next := range frequencies(m.edges[c]) {
			if _, err = stmtEdge.ExecContext(ctx, modelID, contextID, int(next.Id), next.Freq); err != nil {
				return fmt.Errorf("failed to insert edge (%d -> %d): %w", contextID, next.Id, err)
			}
			edgeRows++
		}
	}

	m.logger.InfoContext(ctx, "Snapshot written",
		slog.String("model_name", name),
		slog.Int("model_id", modelID),
		slog.Int("vocab_items", alphabet.Len()),
		slog.Int("contexts", len(m.edges)),
		slog.Int("edge_rows", edgeRows),
	)

	return tx.Commit()
}

// removeSnapshot deletes a named snapshot and all of its rows. A missing
// snapshot is not an error.
func removeSnapshot(ctx context.Context, tx *sql.Tx, name string) error {
	var modelID int
	err := tx.QueryRowContext(ctx, "SELECT model_id FROM markov_models WHERE model_name = ?", name).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query for model '%s': %w", name, err)
	}

	for _, table := range []string{"markov_edges", "markov_contexts", "markov_vocabulary", "markov_models"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE model_id = ?", table)
		if _, err = tx.ExecContext(ctx, query, modelID); err != nil {
			return fmt.Errorf("failed to remove %s for model %d: %w", table, modelID, err)
		}
	}
	return nil
}
