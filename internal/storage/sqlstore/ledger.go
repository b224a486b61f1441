package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lifequest/internal/models"
)

const ledgerColumns = "id, currency, seq, amount, kind, category, description, balance_after, created_at"

type ledgerRow struct {
	ID           string `db:"id"`
	Currency     string `db:"currency"`
	Seq          int64  `db:"seq"`
	Amount       int64  `db:"amount"`
	Kind         string `db:"kind"`
	Category     string `db:"category"`
	Description  string `db:"description"`
	BalanceAfter int64  `db:"balance_after"`
	CreatedAt    string `db:"created_at"`
}

func (r ledgerRow) model() (models.LedgerEntry, error) {
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return models.LedgerEntry{
		ID:           r.ID,
		Currency:     models.Currency(r.Currency),
		Seq:          r.Seq,
		Amount:       r.Amount,
		Kind:         models.EntryKind(r.Kind),
		Category:     models.Category(r.Category),
		Description:  r.Description,
		BalanceAfter: r.BalanceAfter,
		CreatedAt:    created,
	}, nil
}

func (q *queries) LedgerBalance(ctx context.Context, currency models.Currency) (int64, error) {
	return q.readBalance(ctx, currency, "")
}

func (q *queries) LockLedger(ctx context.Context, currency models.Currency) (int64, error) {
	return q.readBalance(ctx, currency, q.dialect.LockClause)
}

func (q *queries) readBalance(ctx context.Context, currency models.Currency, lock string) (int64, error) {
	var balance int64
	err := q.get(ctx, &balance, "SELECT balance FROM ledger_accounts WHERE currency = ?"+lock, string(currency))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s balance: %w", currency, err)
	}
	return balance, nil
}

func (q *queries) SetLedgerBalance(ctx context.Context, currency models.Currency, balance int64, at time.Time) error {
	res, err := q.exec(ctx, "UPDATE ledger_accounts SET balance = ?, updated_at = ? WHERE currency = ?", balance, ts(at), string(currency))
	if err != nil {
		return fmt.Errorf("failed to update %s balance: %w", currency, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = q.exec(ctx, "INSERT INTO ledger_accounts (currency, balance, updated_at) VALUES (?, ?, ?)", string(currency), balance, ts(at))
	if err != nil {
		return fmt.Errorf("failed to create %s account: %w", currency, err)
	}
	return nil
}

// AddLedgerEntry assigns the next sequence number when entry.Seq is zero.
func (q *queries) AddLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.Seq == 0 {
		var last int64
		if err := q.get(ctx, &last, "SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE currency = ?", string(entry.Currency)); err != nil {
			return fmt.Errorf("failed to allocate ledger sequence: %w", err)
		}
		entry.Seq = last + 1
	}

	_, err := q.exec(ctx,
		"INSERT INTO ledger_entries ("+ledgerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, string(entry.Currency), entry.Seq, entry.Amount, string(entry.Kind),
		string(entry.Category), entry.Description, entry.BalanceAfter, ts(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func (q *queries) GetLedgerEntry(ctx context.Context, currency models.Currency, id string) (models.LedgerEntry, error) {
	var row ledgerRow
	err := q.getOne(ctx, &row, string(currency)+" entry", id,
		"SELECT "+ledgerColumns+" FROM ledger_entries WHERE currency = ? AND id = ?", string(currency), id)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return row.model()
}

func (q *queries) ListLedgerEntries(ctx context.Context, f models.LedgerFilter) ([]models.LedgerEntry, error) {
	var w where
	w.add("currency = ?", string(f.Currency))
	if f.Kind != "" {
		w.add("kind = ?", string(f.Kind))
	}
	if f.Category != "" {
		w.add("category = ?", string(f.Category))
	}
	if f.Since != nil {
		w.add("created_at >= ?", ts(*f.Since))
	}
	if f.FromSeq > 0 {
		w.add("seq >= ?", f.FromSeq)
	}
	if f.BeforeSeq > 0 {
		w.add("seq < ?", f.BeforeSeq)
	}

	order := " ORDER BY seq DESC"
	if f.Ascending {
		order = " ORDER BY seq ASC"
	}

	var rows []ledgerRow
	query := "SELECT " + ledgerColumns + " FROM ledger_entries" + w.String() + order + limitClause(f.Limit)
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", f.Currency, err)
	}
	return convertAll(rows, ledgerRow.model)
}

func (q *queries) UpdateLedgerEntry(ctx context.Context, e models.LedgerEntry) error {
	return q.execOne(ctx, string(e.Currency)+" entry", e.ID,
		"UPDATE ledger_entries SET amount = ?, kind = ?, category = ?, description = ?, balance_after = ? WHERE currency = ? AND id = ?",
		e.Amount, string(e.Kind), string(e.Category), e.Description, e.BalanceAfter, string(e.Currency), e.ID)
}

func (q *queries) DeleteLedgerEntry(ctx context.Context, currency models.Currency, id string) error {
	return q.execOne(ctx, string(currency)+" entry", id,
		"DELETE FROM ledger_entries WHERE currency = ? AND id = ?", string(currency), id)
}
