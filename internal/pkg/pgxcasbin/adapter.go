// Package pgxcasbin stores casbin policy rules in Postgres through pgx.
// It implements the casbin persist adapter interfaces plus a LISTEN/NOTIFY
// watcher so multiple portal instances see role changes without restarts.
package pgxcasbin

import (
	"context"
	"errors"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/samber/lo"
	"go.uber.org/atomic"
)

// Filter selects rule subsets per ptype for LoadFilteredPolicy. Each value
// list is matched column by column starting at v0, empty strings match any.
type Filter map[string][][]string

// Pinger checks database connectivity.
type Pinger interface {
	Ping(context.Context) error
}

// Adapter persists casbin rules in a Postgres table.
type Adapter struct {
	store    *ruleStore
	filtered *atomic.Bool
}

var (
	_ persist.Adapter          = (*Adapter)(nil)
	_ persist.ContextAdapter   = (*Adapter)(nil)
	_ persist.BatchAdapter     = (*Adapter)(nil)
	_ persist.FilteredAdapter  = (*Adapter)(nil)
	_ persist.UpdatableAdapter = (*Adapter)(nil)
)

// Option customizes the adapter.
type Option func(*Adapter)

// WithTableName overrides the default rule table name.
func WithTableName(name string) Option {
	return func(a *Adapter) {
		a.store.table = lo.SnakeCase(name)
	}
}

// NewAdapter creates an adapter over db after verifying connectivity.
func NewAdapter(ctx context.Context, db interface {
	Pinger
	Commander
}, opts ...Option) (*Adapter, error) {
	if lo.IsNil(db) {
		return nil, errors.Join(ErrPing, errors.New("nil database"))
	}
	if err := db.Ping(ctx); err != nil {
		return nil, errors.Join(ErrPing, err)
	}

	a := &Adapter{store: newRuleStore(db), filtered: atomic.NewBool(false)}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// LoadPolicy loads all rules into the model.
func (a *Adapter) LoadPolicy(m model.Model) error {
	return a.LoadPolicyCtx(context.Background(), m)
}

// LoadPolicyCtx loads all rules into the model.
func (a *Adapter) LoadPolicyCtx(ctx context.Context, m model.Model) error {
	rules, err := a.store.selectAll(ctx)
	if err != nil {
		return err
	}
	a.filtered.Store(false)
	return loadRules(rules, m)
}

// LoadFilteredPolicy loads only the rules matching filter, which must be a
// Filter or nil. A nil filter behaves like LoadPolicy.
func (a *Adapter) LoadFilteredPolicy(m model.Model, filter any) error {
	if lo.IsNil(filter) {
		return a.LoadPolicy(m)
	}

	f, ok := filter.(Filter)
	if !ok {
		if p, pok := filter.(*Filter); pok {
			f = *p
		} else {
			return ErrFilterType
		}
	}

	ctx := context.Background()
	for ptype, values := range f {
		for _, value := range values {
			rules, err := a.store.selectFiltered(ctx, ptype, 0, value...)
			if err != nil {
				return err
			}
			if err := loadRules(rules, m); err != nil {
				return err
			}
		}
	}
	a.filtered.Store(true)
	return nil
}

// IsFiltered reports whether the last load was filtered.
func (a *Adapter) IsFiltered() bool {
	return a.filtered.Load()
}

// SavePolicy replaces every stored rule with the model contents.
func (a *Adapter) SavePolicy(m model.Model) error {
	return a.SavePolicyCtx(context.Background(), m)
}

// SavePolicyCtx replaces every stored rule with the model contents.
func (a *Adapter) SavePolicyCtx(ctx context.Context, m model.Model) error {
	return a.store.replaceAll(ctx, collectRules(m))
}

// AddPolicy inserts a single rule.
func (a *Adapter) AddPolicy(sec, ptype string, rule []string) error {
	return a.AddPolicyCtx(context.Background(), sec, ptype, rule)
}

// AddPolicyCtx inserts a single rule.
func (a *Adapter) AddPolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	return a.store.insert(ctx, ptype, rule)
}

// AddPolicies inserts multiple rules in one round trip.
func (a *Adapter) AddPolicies(_, ptype string, rules [][]string) error {
	return a.store.batchInsert(context.Background(), ptype, rules)
}

// RemovePolicy deletes a single rule.
func (a *Adapter) RemovePolicy(sec, ptype string, rule []string) error {
	return a.RemovePolicyCtx(context.Background(), sec, ptype, rule)
}

// RemovePolicyCtx deletes a single rule.
func (a *Adapter) RemovePolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	return a.store.delete(ctx, ptype, rule)
}

// RemovePolicies deletes multiple rules in one round trip.
func (a *Adapter) RemovePolicies(_, ptype string, rules [][]string) error {
	return a.store.batchDelete(context.Background(), ptype, rules)
}

// RemoveFilteredPolicy deletes rules matching the field values.
func (a *Adapter) RemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.RemoveFilteredPolicyCtx(context.Background(), sec, ptype, fieldIndex, fieldValues...)
}

// RemoveFilteredPolicyCtx deletes rules matching the field values.
func (a *Adapter) RemoveFilteredPolicyCtx(ctx context.Context, _, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.store.deleteFiltered(ctx, ptype, fieldIndex, fieldValues...)
}

// UpdatePolicy rewrites a single rule in place.
func (a *Adapter) UpdatePolicy(_, ptype string, oldRule, newRule []string) error {
	return a.store.update(context.Background(), ptype, oldRule, newRule)
}

// UpdatePolicies rewrites multiple rules in one round trip.
func (a *Adapter) UpdatePolicies(_, ptype string, oldRules, newRules [][]string) error {
	return a.store.batchUpdate(context.Background(), ptype, oldRules, newRules)
}

// UpdateFilteredPolicies replaces every rule matching the field values with
// newRules and returns the rules that were removed.
func (a *Adapter) UpdateFilteredPolicies(_, ptype string, newRules [][]string, fieldIndex int, fieldValues ...string) ([][]string, error) {
	ctx := context.Background()

	old, err := a.store.selectFiltered(ctx, ptype, fieldIndex, fieldValues...)
	if err != nil {
		return nil, err
	}
	if err := a.store.deleteFiltered(ctx, ptype, fieldIndex, fieldValues...); err != nil {
		return nil, err
	}
	if err := a.store.batchInsert(ctx, ptype, newRules); err != nil {
		return nil, err
	}

	removed := make([][]string, 0, len(old))
	for _, rule := range old {
		if len(rule) > 1 {
			removed = append(removed, rule[1:])
		}
	}
	return removed, nil
}

func loadRules(rules [][]string, m model.Model) error {
	for _, rule := range rules {
		if err := persist.LoadPolicyArray(rule, m); err != nil {
			return err
		}
	}
	return nil
}

func collectRules(m model.Model) [][]string {
	var rules [][]string
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				rules = append(rules, prependPtype(ptype, rule))
			}
		}
	}
	return lo.UniqBy(rules, func(rule []string) string {
		return strings.Join(rule, "\x1f")
	})
}
