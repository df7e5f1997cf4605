package pgxcasbin

import "errors"

var (
	// ErrFilterType indicates the filter value is not a supported type.
	ErrFilterType = errors.New("pgxcasbin: unsupported filter type")
	// ErrRuleTooLong indicates a rule exceeds the column count.
	ErrRuleTooLong = errors.New("pgxcasbin: rule exceeds column count")
	// ErrRuleEmpty indicates an empty rule payload.
	ErrRuleEmpty = errors.New("pgxcasbin: rule is empty")
	// ErrRuleCountMismatch indicates old and new rule slices differ in length.
	ErrRuleCountMismatch = errors.New("pgxcasbin: old and new rule count mismatch")
	// ErrEmptyPtype indicates a missing policy type.
	ErrEmptyPtype = errors.New("pgxcasbin: ptype is empty")
	// ErrExec indicates a statement execution failure.
	ErrExec = errors.New("pgxcasbin: failed to execute statement")
	// ErrQuery indicates a query failure.
	ErrQuery = errors.New("pgxcasbin: failed to query rules")
	// ErrScan indicates a row scan failure.
	ErrScan = errors.New("pgxcasbin: failed to scan rule row")
	// ErrBatch indicates a batch execution failure.
	ErrBatch = errors.New("pgxcasbin: failed to execute batch")
	// ErrTx indicates a transaction failure.
	ErrTx = errors.New("pgxcasbin: transaction failed")
	// ErrPing indicates a connectivity check failure.
	ErrPing = errors.New("pgxcasbin: failed to ping database")
	// ErrNotify indicates a pg_notify failure.
	ErrNotify = errors.New("pgxcasbin: failed to notify channel")
	// ErrListen indicates a listen channel failure.
	ErrListen = errors.New("pgxcasbin: failed to listen on channel")
	// ErrWaitNotification indicates a notification wait failure.
	ErrWaitNotification = errors.New("pgxcasbin: failed to wait for notification")
	// ErrUnknownUpdate indicates an unsupported update message method.
	ErrUnknownUpdate = errors.New("pgxcasbin: unknown update method")
)
