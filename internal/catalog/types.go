// Package catalog resolves the read-only bank/branch queries: it builds the
// parameterized SQL, runs it against a Store and maps the flat rows back into
// Bank and Branch values.
package catalog

import "context"

// Row is one result row keyed by column name.
type Row map[string]any

// Store executes parameterized queries. Parameters are named and referenced
// as @name in the query text.
type Store interface {
	ExecuteAll(ctx context.Context, query string, params map[string]any) ([]Row, error)
	// ExecuteOne returns a nil Row when nothing matches.
	ExecuteOne(ctx context.Context, query string, params map[string]any) (Row, error)
}

// SnapshotStore is a Store that can run several reads inside one read-only
// transaction.
type SnapshotStore interface {
	Store
	ReadOnly(ctx context.Context, fn func(Store) error) error
}

// Bank is one row of the banks table.
type Bank struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Branch is a branch with its owning bank attached when the row carried it.
type Branch struct {
	IFSC     string  `json:"ifsc"`
	BankID   int64   `json:"bank_id"`
	Branch   *string `json:"branch"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	District *string `json:"district"`
	State    *string `json:"state"`
	Bank     *Bank   `json:"bank"`
}

// BranchEdge wraps one branch of a BranchConnection.
type BranchEdge struct {
	Node Branch `json:"node"`
}

// BranchConnection is one page of branches. TotalCount is the number of
// matching rows before the page limit is applied.
type BranchConnection struct {
	Edges      []BranchEdge `json:"edges"`
	TotalCount int64        `json:"total_count"`
}

// BranchFilter holds the optional substring filters of a branch listing.
// Nil and empty values are both treated as absent.
type BranchFilter struct {
	BankName *string
	City     *string
	State    *string
	IFSC     *string
}

// BranchesArgs are the arguments of a branch listing.
type BranchesArgs struct {
	// First is the page size; nil means the service default.
	First *int
	BranchFilter
}
