package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Column identifies one numeric field of a sensor reading.
type Column int

const (
	GHI Column = iota
	DNI
	DHI
	ModA
	ModB
	Tamb
	RH
	WS
	WSgust
	WSstdev
	WD
	WDstdev
	BP
	Cleaning
	Precipitation
	TModA
	TModB

	numColumns
)

var columnNames = [numColumns]string{
	GHI:           "GHI",
	DNI:           "DNI",
	DHI:           "DHI",
	ModA:          "ModA",
	ModB:          "ModB",
	Tamb:          "Tamb",
	RH:            "RH",
	WS:            "WS",
	WSgust:        "WSgust",
	WSstdev:       "WSstdev",
	WD:            "WD",
	WDstdev:       "WDstdev",
	BP:            "BP",
	Cleaning:      "Cleaning",
	Precipitation: "Precipitation",
	TModA:         "TModA",
	TModB:         "TModB",
}

// TimestampHeader is the header of the date-time column.
const TimestampHeader = "Timestamp"

// Column groups used by the quality checks.
var (
	// AllColumns lists every known numeric column in file order.
	AllColumns = []Column{GHI, DNI, DHI, ModA, ModB, Tamb, RH, WS, WSgust, WSstdev, WD, WDstdev, BP, Cleaning, Precipitation, TModA, TModB}

	// RequiredColumns must be present for a dataset to be analyzed.
	RequiredColumns = []Column{GHI, DNI, DHI, ModA, ModB, Tamb, RH, WS, WSgust, WD, BP, Cleaning, TModA, TModB}

	// MonitoredColumns are checked for missing and negative values and get z-scores.
	MonitoredColumns = []Column{GHI, DNI, DHI, ModA, ModB, WS, WSgust}

	// NonNegativeColumns hold physically non-negative measurements the cleaner acts on.
	NonNegativeColumns = []Column{GHI, DNI, DHI, WS, WSgust}

	// CorrelationColumns feed the Pearson correlation matrix.
	CorrelationColumns = []Column{GHI, DNI, DHI, TModA, TModB}
)

func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return "unknown"
	}
	return columnNames[c]
}

func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Column) UnmarshalText(b []byte) error {
	col, ok := ParseColumn(string(b))
	if !ok {
		return fmt.Errorf("unknown column %q", b)
	}
	*c = col
	return nil
}

// ParseColumn maps a header name onto a Column.
func ParseColumn(name string) (Column, bool) {
	for i, n := range columnNames {
		if n == name {
			return Column(i), true
		}
	}
	return 0, false
}

// ColumnSet records which columns a dataset carries.
type ColumnSet uint32

func NewColumnSet(cols ...Column) ColumnSet {
	var s ColumnSet
	for _, c := range cols {
		s = s.With(c)
	}
	return s
}

func (s ColumnSet) With(c Column) ColumnSet { return s | 1<<uint(c) }

func (s ColumnSet) Has(c Column) bool { return s&(1<<uint(c)) != 0 }

// Missing returns the subset of want that is not in s, preserving order.
func (s ColumnSet) Missing(want []Column) []Column {
	var out []Column
	for _, c := range want {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Record is one timestamped sensor reading. Missing values are NaN.
type Record struct {
	Timestamp time.Time
	Values    [numColumns]float64
	// Outlier marks a row kept despite an invalid measurement.
	Outlier bool
}

// NewRecord returns a record with every value missing.
func NewRecord(ts time.Time) Record {
	r := Record{Timestamp: ts}
	for i := range r.Values {
		r.Values[i] = math.NaN()
	}
	return r
}

func (r Record) Get(c Column) float64 { return r.Values[c] }

func (r *Record) Set(c Column, v float64) { r.Values[c] = v }

// IsMissing reports whether the value of c is absent.
func (r Record) IsMissing(c Column) bool { return math.IsNaN(r.Values[c]) }

// MarshalJSON writes known columns by header name, missing values as null.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, numColumns+2)
	m[TimestampHeader] = r.Timestamp
	for _, c := range AllColumns {
		m[c.String()] = Num(r.Values[c])
	}
	if r.Outlier {
		m["outlier"] = true
	}
	return json.Marshal(m)
}

// Dataset is one site's ordered log of readings.
type Dataset struct {
	Name    string
	Source  string
	Columns ColumnSet
	Records []Record
}

func (d Dataset) Len() int { return len(d.Records) }

// Column copies the values of c in row order.
func (d Dataset) Column(c Column) []float64 {
	out := make([]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Values[c]
	}
	return out
}

// Clone returns a dataset whose records can be modified without touching d.
func (d Dataset) Clone() Dataset {
	out := d
	out.Records = make([]Record, len(d.Records))
	copy(out.Records, d.Records)
	return out
}

// Num is a float that encodes NaN as JSON null.
type Num float64

func (n Num) Missing() bool { return math.IsNaN(float64(n)) }

func (n Num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n *Num) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Num(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Num(f)
	return nil
}
