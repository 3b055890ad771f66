package catalog

import "github.com/spf13/cast"

// BankFromRow maps a row of "SELECT id, name FROM banks".
func BankFromRow(row Row) Bank {
	return Bank{
		ID:   cast.ToInt64(row["id"]),
		Name: cast.ToString(row["name"]),
	}
}

// BranchFromRow maps a branch-join row. The owning bank comes from the
// bank_id_ref/bank_name columns and is left nil when both are missing.
func BranchFromRow(row Row) Branch {
	b := Branch{
		IFSC:     cast.ToString(row["ifsc"]),
		BankID:   cast.ToInt64(row["bank_id"]),
		Branch:   nullableString(row["branch"]),
		Address:  nullableString(row["address"]),
		City:     nullableString(row["city"]),
		District: nullableString(row["district"]),
		State:    nullableString(row["state"]),
	}
	if row["bank_id_ref"] != nil || row["bank_name"] != nil {
		b.Bank = &Bank{
			ID:   cast.ToInt64(row["bank_id_ref"]),
			Name: cast.ToString(row["bank_name"]),
		}
	}
	return b
}

func nullableString(v any) *string {
	if v == nil {
		return nil
	}
	s := cast.ToString(v)
	return &s
}
