package solar_eda

import (
	"time"

	"solar_eda/internal/models"
)

// Run is the persisted outcome of one pipeline execution.
type Run struct {
	ID         string               `json:"id"`
	CreatedAt  time.Time            `json:"created_at"`
	Dataset    string               `json:"dataset"`              // selection key or upload file name
	Source     string               `json:"source"`               // catalog | upload
	Policy     string               `json:"policy"`               // drop | flag | clip
	RowsIn     int                  `json:"rows_in"`
	RowsOut    int                  `json:"rows_out"`
	DurationMs int64                `json:"duration_ms"`
	Summary    models.CleanSummary  `json:"summary"`
	Report     models.QualityReport `json:"report"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}
