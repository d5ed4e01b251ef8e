package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// toJSONB marshals v for a jsonb column; nil / empty values are stored as NULL
func toJSONB(v any, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// fromJSONB unmarshals a nullable jsonb column read as text
func fromJSONB(raw sql.NullString, dst any, column string) error {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", column, err)
	}
	return nil
}
