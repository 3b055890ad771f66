package catalog

import (
	"context"

	"github.com/spf13/cast"
)

// Service answers the four catalog queries against a Store. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	store           Store
	defaultPageSize int
	consistentReads bool
}

type Option func(*Service)

// WithDefaultPageSize overrides DefaultPageSize for listings without a page size.
func WithDefaultPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultPageSize = n
		}
	}
}

// WithConsistentReads runs the count and page queries of a branch listing in
// one read-only transaction when the store supports it.
func WithConsistentReads(on bool) Option {
	return func(s *Service) { s.consistentReads = on }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, defaultPageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Banks lists every bank ordered by name.
func (s *Service) Banks(ctx context.Context) ([]Bank, error) {
	rows, err := s.store.ExecuteAll(ctx, listBanksSQL, nil)
	if err != nil {
		return nil, backendErr("list banks", err)
	}
	banks := make([]Bank, 0, len(rows))
	for _, row := range rows {
		banks = append(banks, BankFromRow(row))
	}
	return banks, nil
}

// Bank returns the bank with the given id, or nil when there is none.
func (s *Service) Bank(ctx context.Context, id int64) (*Bank, error) {
	row, err := s.store.ExecuteOne(ctx, bankByIDSQL, map[string]any{"id": id})
	if err != nil {
		return nil, backendErr("get bank", err)
	}
	if row == nil {
		return nil, nil
	}
	bank := BankFromRow(row)
	return &bank, nil
}

// Branches returns the first page of branches matching every given filter
// together with the total number of matches.
func (s *Service) Branches(ctx context.Context, args BranchesArgs) (*BranchConnection, error) {
	limit := s.defaultPageSize
	if args.First != nil {
		limit = *args.First
	}
	if limit < 0 {
		return nil, invalidRequest("first must not be negative, got %d", limit)
	}

	q := BuildBranchQueries(args.BranchFilter, limit)

	var conn *BranchConnection
	read := func(st Store) error {
		var err error
		conn, err = fetchBranchPage(ctx, st, q)
		return err
	}

	var err error
	if snap, ok := s.store.(SnapshotStore); ok && s.consistentReads {
		err = snap.ReadOnly(ctx, read)
	} else {
		err = read(s.store)
	}
	if err != nil {
		return nil, backendErr("list branches", err)
	}
	return conn, nil
}

// The count and the page are two separate reads; without a snapshot they may
// see different data under concurrent writes.
func fetchBranchPage(ctx context.Context, st Store, q BranchQueries) (*BranchConnection, error) {
	total, err := st.ExecuteOne(ctx, q.CountSQL, q.CountParams)
	if err != nil {
		return nil, err
	}
	rows, err := st.ExecuteAll(ctx, q.DataSQL, q.DataParams)
	if err != nil {
		return nil, err
	}

	conn := &BranchConnection{Edges: make([]BranchEdge, 0, len(rows))}
	if total != nil {
		conn.TotalCount = cast.ToInt64(total["total"])
	}
	for _, row := range rows {
		conn.Edges = append(conn.Edges, BranchEdge{Node: BranchFromRow(row)})
	}
	return conn, nil
}

// BranchByIFSC looks a branch up by its exact, case-sensitive code. It
// returns nil when no branch has that code.
func (s *Service) BranchByIFSC(ctx context.Context, ifsc string) (*Branch, error) {
	row, err := s.store.ExecuteOne(ctx, branchByIFSCSQL, map[string]any{"ifsc": ifsc})
	if err != nil {
		return nil, backendErr("get branch", err)
	}
	if row == nil {
		return nil, nil
	}
	branch := BranchFromRow(row)
	return &branch, nil
}
