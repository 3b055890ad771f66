// Package gql exposes the catalog as a GraphQL schema. Field and argument
// names follow GraphQL camelCase: branchByIfsc, totalCount, bankName.
package gql

import (
	"context"
	"errors"

	"bank-branches-backend/internal/catalog"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// resolverError carries an error code into the "extensions" of a GraphQL error.
// When msg is set it replaces the wrapped error's text in the response.
type resolverError struct {
	err  error
	code string
	msg  string
}

func (e *resolverError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.err.Error()
}

func (e *resolverError) Unwrap() error { return e.err }

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// ctxLogger returns the request logger attached by Handler, or the global one.
func ctxLogger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

// classify maps catalog errors to coded GraphQL errors. Store failures are
// logged and reported without their details.
func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrBackendUnavailable):
		ctxLogger(ctx).Error().Err(err).Msg("backend unavailable")
		return &resolverError{err: err, code: "BACKEND_UNAVAILABLE", msg: "backend unavailable"}
	case errors.Is(err, catalog.ErrInvalidRequest):
		return &resolverError{err: err, code: "BAD_USER_INPUT"}
	default:
		return err
	}
}

func optionalString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func branchFrom(src interface{}) *catalog.Branch {
	switch b := src.(type) {
	case *catalog.Branch:
		return b
	case catalog.Branch:
		return &b
	}
	return nil
}

func bankFrom(src interface{}) *catalog.Bank {
	switch b := src.(type) {
	case *catalog.Bank:
		return b
	case catalog.Bank:
		return &b
	}
	return nil
}

func stringArg(args map[string]interface{}, name string) *string {
	if s, ok := args[name].(string); ok {
		return &s
	}
	return nil
}

// NewSchema builds the query-only schema over svc.
func NewSchema(svc *catalog.Service) (graphql.Schema, error) {
	bankType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bank",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return bankFrom(p.Source).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return bankFrom(p.Source).Name, nil
				},
			},
		},
	})

	branchString := func(get func(*catalog.Branch) *string) *graphql.Field {
		return &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return optionalString(get(branchFrom(p.Source))), nil
			},
		}
	}

	branchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Branch",
		Fields: graphql.Fields{
			"ifsc": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return branchFrom(p.Source).IFSC, nil
				},
			},
			"bankId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return branchFrom(p.Source).BankID, nil
				},
			},
			"branch":   branchString(func(b *catalog.Branch) *string { return b.Branch }),
			"address":  branchString(func(b *catalog.Branch) *string { return b.Address }),
			"city":     branchString(func(b *catalog.Branch) *string { return b.City }),
			"district": branchString(func(b *catalog.Branch) *string { return b.District }),
			"state":    branchString(func(b *catalog.Branch) *string { return b.State }),
			"bank": &graphql.Field{
				Type: bankType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if bank := branchFrom(p.Source).Bank; bank != nil {
						return bank, nil
					}
					return nil, nil
				},
			},
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BranchEdge",
		Fields: graphql.Fields{
			"node": &graphql.Field{
				Type: graphql.NewNonNull(branchType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					edge, _ := p.Source.(catalog.BranchEdge)
					return &edge.Node, nil
				},
			},
		},
	})

	connectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BranchConnection",
		Fields: graphql.Fields{
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edgeType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*catalog.BranchConnection).Edges, nil
				},
			},
			"totalCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*catalog.BranchConnection).TotalCount, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"banks": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bankType))),
				Description: "Get all banks",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					banks, err := svc.Banks(p.Context)
					if err != nil {
						return nil, classify(p.Context, err)
					}
					return banks, nil
				},
			},
			"bank": &graphql.Field{
				Type:        bankType,
				Description: "Get a specific bank by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					bank, err := svc.Bank(p.Context, int64(id))
					if err != nil {
						return nil, classify(p.Context, err)
					}
					if bank == nil {
						return nil, nil
					}
					return bank, nil
				},
			},
			"branches": &graphql.Field{
				Type:        graphql.NewNonNull(connectionType),
				Description: "Get branches with optional filtering",
				Args: graphql.FieldConfigArgument{
					"first":    &graphql.ArgumentConfig{Type: graphql.Int},
					"bankName": &graphql.ArgumentConfig{Type: graphql.String},
					"city":     &graphql.ArgumentConfig{Type: graphql.String},
					"state":    &graphql.ArgumentConfig{Type: graphql.String},
					"ifsc":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					args := catalog.BranchesArgs{
						BranchFilter: catalog.BranchFilter{
							BankName: stringArg(p.Args, "bankName"),
							City:     stringArg(p.Args, "city"),
							State:    stringArg(p.Args, "state"),
							IFSC:     stringArg(p.Args, "ifsc"),
						},
					}
					if first, ok := p.Args["first"].(int); ok {
						args.First = &first
					}
					conn, err := svc.Branches(p.Context, args)
					if err != nil {
						return nil, classify(p.Context, err)
					}
					return conn, nil
				},
			},
			"branchByIfsc": &graphql.Field{
				Type:        branchType,
				Description: "Get a specific branch by IFSC code",
				Args: graphql.FieldConfigArgument{
					"ifsc": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ifsc, _ := p.Args["ifsc"].(string)
					branch, err := svc.BranchByIFSC(p.Context, ifsc)
					if err != nil {
						return nil, classify(p.Context, err)
					}
					if branch == nil {
						return nil, nil
					}
					return branch, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
