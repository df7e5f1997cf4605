package pgxcasbin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	defaultTableName = "casbin_rules"
	ruleColumns      = 6
	columnList       = "v0,v1,v2,v3,v4,v5"
)

// Commander is the subset of pgx operations the rule store needs. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Commander interface {
	Begin(context.Context) (pgx.Tx, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ruleStore struct {
	db    Commander
	table string
}

func newRuleStore(db Commander) *ruleStore {
	return &ruleStore{db: db, table: defaultTableName}
}

func (s *ruleStore) insertSQL() string {
	return fmt.Sprintf(
		"insert into %s (ptype, %s) values ($1,$2,$3,$4,$5,$6,$7) on conflict (ptype, %s) do nothing",
		s.table, columnList, columnList,
	)
}

func (s *ruleStore) deleteSQL() string {
	return fmt.Sprintf(
		"delete from %s where ptype = $1 and v0 = $2 and v1 = $3 and v2 = $4 and v3 = $5 and v4 = $6 and v5 = $7",
		s.table,
	)
}

func (s *ruleStore) updateSQL() string {
	return fmt.Sprintf(
		"update %s set v0 = $2, v1 = $3, v2 = $4, v3 = $5, v4 = $6, v5 = $7"+
			" where ptype = $1 and v0 = $8 and v1 = $9 and v2 = $10 and v3 = $11 and v4 = $12 and v5 = $13",
		s.table,
	)
}

func (s *ruleStore) insert(ctx context.Context, ptype string, rule []string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, s.insertSQL(), lo.ToAnySlice(prependPtype(ptype, padded))...); err != nil {
		return errors.Join(ErrExec, err)
	}
	return nil
}

func (s *ruleStore) delete(ctx context.Context, ptype string, rule []string) error {
	padded, err := padRule(rule)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, s.deleteSQL(), lo.ToAnySlice(prependPtype(ptype, padded))...); err != nil {
		return errors.Join(ErrExec, err)
	}
	return nil
}

func (s *ruleStore) update(ctx context.Context, ptype string, oldRule, newRule []string) error {
	paddedOld, err := padRule(oldRule)
	if err != nil {
		return err
	}
	paddedNew, err := padRule(newRule)
	if err != nil {
		return err
	}

	args := prependPtype(ptype, append(paddedNew, paddedOld...))
	if _, err := s.db.Exec(ctx, s.updateSQL(), lo.ToAnySlice(args)...); err != nil {
		return errors.Join(ErrExec, err)
	}
	return nil
}

// deleteFiltered removes rules of the given ptype whose columns, starting at
// startIdx, match the non-empty values in args.
func (s *ruleStore) deleteFiltered(ctx context.Context, ptype string, startIdx int, args ...string) error {
	if ptype == "" {
		return ErrEmptyPtype
	}
	if len(args) > ruleColumns-startIdx {
		return fmt.Errorf("%w: %d values from index %d", ErrRuleTooLong, len(args), startIdx)
	}

	query := fmt.Sprintf("delete from %s where ptype = $1", s.table)
	bind := []any{ptype}
	for i, arg := range args {
		if lo.IsEmpty(arg) {
			continue
		}
		bind = append(bind, arg)
		query += " and v" + strconv.Itoa(i+startIdx) + " = $" + strconv.Itoa(len(bind))
	}

	if _, err := s.db.Exec(ctx, query, bind...); err != nil {
		return errors.Join(ErrExec, err)
	}
	return nil
}

func (s *ruleStore) selectAll(ctx context.Context) ([][]string, error) {
	return s.selectFiltered(ctx, "", 0)
}

func (s *ruleStore) selectFiltered(ctx context.Context, ptype string, startIdx int, args ...string) ([][]string, error) {
	if len(args) > ruleColumns-startIdx {
		return nil, fmt.Errorf("%w: %d values from index %d", ErrRuleTooLong, len(args), startIdx)
	}

	query := fmt.Sprintf("select ptype, %s from %s", columnList, s.table)
	var conds []string
	var bind []any
	if lo.IsNotEmpty(ptype) {
		bind = append(bind, ptype)
		conds = append(conds, "ptype = $1")
	}
	for i, arg := range args {
		if lo.IsEmpty(arg) {
			continue
		}
		bind = append(bind, arg)
		conds = append(conds, "v"+strconv.Itoa(i+startIdx)+" = $"+strconv.Itoa(len(bind)))
	}
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}

	rows, err := s.db.Query(ctx, query, bind...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		cols := make([]sql.NullString, ruleColumns+1)
		dest := make([]any, len(cols))
		for i := range cols {
			dest[i] = &cols[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Join(ErrScan, err)
		}

		rule := make([]string, len(cols))
		for i, c := range cols {
			if c.Valid {
				rule[i] = c.String
			}
		}
		result = append(result, trimTrailingEmpty(rule))
	}
	return result, rows.Err()
}

// replaceAll truncates the rule table and inserts the given full rules (each
// with its ptype in position zero) in a single transaction.
func (s *ruleStore) replaceAll(ctx context.Context, rules [][]string) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrTx, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf("truncate table %s restart identity", s.table)); err != nil {
		return errors.Join(ErrExec, err)
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		if len(rule) == 0 {
			return ErrRuleEmpty
		}
		padded, perr := padRule(rule[1:])
		if perr != nil {
			return perr
		}
		batch.Queue(s.insertSQL(), lo.ToAnySlice(prependPtype(rule[0], padded))...)
	}
	if err = runBatch(tx, ctx, batch); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Join(ErrTx, err)
	}
	return nil
}

func (s *ruleStore) batchInsert(ctx context.Context, ptype string, rules [][]string) error {
	return s.batchExec(ctx, ptype, rules, s.insertSQL())
}

func (s *ruleStore) batchDelete(ctx context.Context, ptype string, rules [][]string) error {
	return s.batchExec(ctx, ptype, rules, s.deleteSQL())
}

func (s *ruleStore) batchExec(ctx context.Context, ptype string, rules [][]string, query string) error {
	if len(rules) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rule := range rules {
		padded, err := padRule(rule)
		if err != nil {
			return err
		}
		batch.Queue(query, lo.ToAnySlice(prependPtype(ptype, padded))...)
	}
	return runBatch(s.db, ctx, batch)
}

func (s *ruleStore) batchUpdate(ctx context.Context, ptype string, oldRules, newRules [][]string) error {
	if len(oldRules) == 0 && len(newRules) == 0 {
		return nil
	}
	if len(oldRules) != len(newRules) {
		return fmt.Errorf("%w: %d vs %d", ErrRuleCountMismatch, len(oldRules), len(newRules))
	}

	batch := &pgx.Batch{}
	for i := range oldRules {
		paddedOld, err := padRule(oldRules[i])
		if err != nil {
			return err
		}
		paddedNew, err := padRule(newRules[i])
		if err != nil {
			return err
		}
		args := prependPtype(ptype, append(paddedNew, paddedOld...))
		batch.Queue(s.updateSQL(), lo.ToAnySlice(args)...)
	}
	return runBatch(s.db, ctx, batch)
}

type batchSender interface {
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

func runBatch(db batchSender, ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	br := db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return errors.Join(ErrBatch, err, br.Close())
		}
	}
	if err := br.Close(); err != nil {
		return errors.Join(ErrBatch, err)
	}
	return nil
}

func padRule(rule []string) ([]string, error) {
	if len(rule) > ruleColumns {
		return nil, fmt.Errorf("%w: %d values", ErrRuleTooLong, len(rule))
	}
	padded := make([]string, ruleColumns)
	copy(padded, rule)
	return padded, nil
}

func prependPtype(ptype string, rule []string) []string {
	full := make([]string, 1+len(rule))
	full[0] = ptype
	copy(full[1:], rule)
	return full
}

func trimTrailingEmpty(rule []string) []string {
	last := len(rule) - 1
	for last >= 0 && rule[last] == "" {
		last--
	}
	return rule[:last+1]
}
