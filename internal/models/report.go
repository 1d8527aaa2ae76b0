package models

// ColumnQuality counts the problems found in a single column.
type ColumnQuality struct {
	Column     Column `json:"column"`
	Missing    int    `json:"missing"`
	Negative   int    `json:"negative"`
	OutOfRange int    `json:"out_of_range"`
}

// Summary is the descriptive statistics row of one column.
type Summary struct {
	Column Column `json:"column"`
	Count  int    `json:"count"`
	Mean   Num    `json:"mean"`
	Std    Num    `json:"std"`
	Min    Num    `json:"min"`
	Q25    Num    `json:"q25"`
	Median Num    `json:"median"`
	Q75    Num    `json:"q75"`
	Max    Num    `json:"max"`
}

// CorrelationMatrix holds pairwise Pearson coefficients; Values[i][j] pairs
// Columns[i] with Columns[j]. Undefined coefficients are missing.
type CorrelationMatrix struct {
	Columns []Column `json:"columns"`
	Values  [][]Num  `json:"values"`
}

// At returns the coefficient of a and b, or false when either is not in the matrix.
func (m CorrelationMatrix) At(a, b Column) (Num, bool) {
	i, j := indexOf(m.Columns, a), indexOf(m.Columns, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// ZScoreTable holds one z-score per row and column. Rows[r][k] belongs to Columns[k].
type ZScoreTable struct {
	Columns []Column `json:"columns"`
	Mean    []Num    `json:"mean"`
	Std     []Num    `json:"std"`
	Rows    [][]Num  `json:"rows"`
}

// Column returns the z-scores of c in row order, or nil when c is not in the table.
func (z ZScoreTable) Column(c Column) []Num {
	k := indexOf(z.Columns, c)
	if k < 0 {
		return nil
	}
	out := make([]Num, len(z.Rows))
	for i, row := range z.Rows {
		out[i] = row[k]
	}
	return out
}

// QualityReport is the read-only result of validating a dataset.
type QualityReport struct {
	Rows        int               `json:"rows"`
	Columns     []ColumnQuality   `json:"columns"`
	Describe    []Summary         `json:"describe"`
	Correlation CorrelationMatrix `json:"correlation"`
	ZScores     ZScoreTable       `json:"z_scores"`
}

// Quality returns the counts for c.
func (q QualityReport) Quality(c Column) (ColumnQuality, bool) {
	for _, cq := range q.Columns {
		if cq.Column == c {
			return cq, true
		}
	}
	return ColumnQuality{}, false
}

func indexOf(cols []Column, c Column) int {
	for i, x := range cols {
		if x == c {
			return i
		}
	}
	return -1
}

// Compact keeps the row count and per-column counts only.
func (q QualityReport) Compact() QualityReport {
	return QualityReport{Rows: q.Rows, Columns: q.Columns}
}
