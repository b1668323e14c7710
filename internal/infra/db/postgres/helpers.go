package postgres

import (
	"database/sql"
	"strings"
)

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func nullableScore(score *int) any {
	if score == nil {
		return nil
	}
	return int64(*score)
}

func scoreFrom(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
