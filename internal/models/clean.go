package models

import "fmt"

// NegativePolicy decides what the cleaner does with negative irradiance or wind values.
type NegativePolicy string

const (
	// PolicyDrop removes affected rows; cleaning-event rows are flagged instead.
	PolicyDrop NegativePolicy = "drop"
	// PolicyFlag keeps affected rows and marks them as outliers.
	PolicyFlag NegativePolicy = "flag"
	// PolicyClip replaces negative values with zero.
	PolicyClip NegativePolicy = "clip"
)

// ParseNegativePolicy accepts "", "drop", "flag" or "clip"; empty means drop.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch NegativePolicy(s) {
	case "", PolicyDrop:
		return PolicyDrop, nil
	case PolicyFlag, PolicyClip:
		return NegativePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown negative value policy %q (want drop, flag or clip)", s)
	}
}

// CleanSummary describes what the cleaner changed.
type CleanSummary struct {
	Policy           NegativePolicy `json:"policy"`
	RowsIn           int            `json:"rows_in"`
	RowsOut          int            `json:"rows_out"`
	RowsDropped      int            `json:"rows_dropped"`
	RowsFlagged      int            `json:"rows_flagged"`
	ProtectedRows    int            `json:"protected_rows"`
	RHClippedLow     int            `json:"rh_clipped_low"`
	RHClippedHigh    int            `json:"rh_clipped_high"`
	NegativesClipped int            `json:"negatives_clipped"`
}
