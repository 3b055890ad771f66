package catalog

import "strings"

// DefaultPageSize caps a branch listing when the caller gives no page size.
const DefaultPageSize = 100

const (
	listBanksSQL = "SELECT id, name FROM banks ORDER BY name"
	bankByIDSQL  = "SELECT id, name FROM banks WHERE id = @id"

	branchJoinFrom = `FROM branches b
JOIN banks ON b.bank_id = banks.id`

	branchSelect = `SELECT b.ifsc, b.bank_id, b.branch, b.address, b.city,
       b.district, b.state, banks.name AS bank_name, banks.id AS bank_id_ref
` + branchJoinFrom

	branchByIFSCSQL = branchSelect + "\nWHERE b.ifsc = @ifsc"
)

// BranchQueries is the count/page pair of a branch listing. Both share the
// same WHERE clause; only DataParams carries the limit.
type BranchQueries struct {
	CountSQL    string
	CountParams map[string]any
	DataSQL     string
	DataParams  map[string]any
}

type predicate struct {
	clause string
	param  string
	value  any
}

type predicateBuilder struct {
	preds []predicate
}

func (pb *predicateBuilder) add(clause, param string, value any) {
	pb.preds = append(pb.preds, predicate{clause: clause, param: param, value: value})
}

// contains adds a substring match for a non-empty filter value.
func (pb *predicateBuilder) contains(clause, param string, value *string) {
	if value == nil || *value == "" {
		return
	}
	pb.add(clause, param, "%"+*value+"%")
}

func (pb *predicateBuilder) where() string {
	if len(pb.preds) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(pb.preds))
	for _, p := range pb.preds {
		clauses = append(clauses, p.clause)
	}
	return "WHERE " + strings.Join(clauses, " AND ")
}

func (pb *predicateBuilder) params() map[string]any {
	params := make(map[string]any, len(pb.preds)+1)
	for _, p := range pb.preds {
		params[p.param] = p.value
	}
	return params
}

// BuildBranchQueries builds the count query and the limited, ordered page
// query for a branch listing. Bank name, city and state match
// case-insensitively; IFSC matches case-sensitively.
func BuildBranchQueries(f BranchFilter, limit int) BranchQueries {
	var pb predicateBuilder
	pb.contains("LOWER(banks.name) LIKE LOWER(@bank_name)", "bank_name", f.BankName)
	pb.contains("LOWER(b.city) LIKE LOWER(@city)", "city", f.City)
	pb.contains("LOWER(b.state) LIKE LOWER(@state)", "state", f.State)
	pb.contains("b.ifsc LIKE @ifsc", "ifsc", f.IFSC)

	where := pb.where()

	countSQL := "SELECT COUNT(*) AS total\n" + branchJoinFrom
	dataSQL := branchSelect
	if where != "" {
		countSQL += "\n" + where
		dataSQL += "\n" + where
	}
	dataSQL += "\nORDER BY banks.name, b.branch\nLIMIT @limit"

	dataParams := pb.params()
	dataParams["limit"] = limit

	return BranchQueries{
		CountSQL:    countSQL,
		CountParams: pb.params(),
		DataSQL:     dataSQL,
		DataParams:  dataParams,
	}
}
