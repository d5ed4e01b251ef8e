package handover

import "fmt"

// StructuralParseError the sheet cannot be read as a handover sheet at all
// (no header row, no sheets, unreadable workbook). Fatal for the whole import.
type StructuralParseError struct {
	Reason string
	Err    error
}

func (e *StructuralParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structural parse error: %s: %v", e.Reason, e.Err)
	}
	return "structural parse error: " + e.Reason
}

func (e *StructuralParseError) Unwrap() error { return e.Err }

// SkipDiagnostic a data row that produced no record
type SkipDiagnostic struct {
	Row    int    `json:"row"` // 1-based sheet row
	Reason string `json:"reason"`
}

// Warning accepted information loss on a row that still produced a record
type Warning struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
