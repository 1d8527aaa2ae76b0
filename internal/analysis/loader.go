package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"solar_eda/internal/dataset"
	"solar_eda/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Sources a dataset can come from.
const (
	SourceCatalog = "catalog"
	SourceUpload  = "upload"
)

// Opener resolves a selection key. Unknown keys yield an error wrapping fs.ErrNotExist.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Input selects what to load: an uploaded stream wins over a selection key.
type Input struct {
	Key        string
	Upload     io.Reader
	UploadName string
}

// Loader turns a selection key or an uploaded stream into a Dataset.
type Loader struct {
	opener Opener
}

func NewLoader(opener Opener) *Loader {
	return &Loader{opener: opener}
}

// Load reads and parses the requested dataset.
func (l *Loader) Load(ctx context.Context, in Input) (models.Dataset, error) {
	if in.Upload != nil {
		name := in.UploadName
		if name == "" {
			name = "upload.csv"
		}
		return decodeAndParse(in.Upload, name, SourceUpload)
	}

	if strings.TrimSpace(in.Key) == "" || l.opener == nil {
		return models.Dataset{}, notFound("load", "no dataset selected and nothing uploaded", nil)
	}
	rc, err := l.opener.Open(ctx, in.Key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Dataset{}, notFound("load", fmt.Sprintf("selection %q", in.Key), err)
		}
		return models.Dataset{}, fmt.Errorf("load %q: %w", in.Key, err)
	}
	defer func() { _ = rc.Close() }()

	return decodeAndParse(rc, dataset.NormalizeName(in.Key), SourceCatalog)
}

func decodeAndParse(r io.Reader, name, source string) (models.Dataset, error) {
	plain, err := dataset.Decompress(r)
	if err != nil {
		return models.Dataset{}, malformed("load", "", 0, "unreadable compressed stream", err)
	}
	defer func() { _ = plain.Close() }()

	ds, err := Parse(plain)
	if err != nil {
		return models.Dataset{}, err
	}
	ds.Name = name
	ds.Source = source
	return ds, nil
}

// Parse reads delimited text with a header row into a Dataset. Every cell is
// read as text and converted here, so a non-numeric measurement is reported
// instead of silently becoming a missing value.
func Parse(r io.Reader) (models.Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return models.Dataset{}, malformed("parse", "", 0, "unreadable delimited text", df.Err)
	}
	if df.Nrow() == 0 {
		return models.Dataset{}, malformed("parse", "", 0, "no data rows", nil)
	}

	var (
		tsHeader string
		present  models.ColumnSet
		headers  = make(map[models.Column]string)
	)
	for _, raw := range df.Names() {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		if name == models.TimestampHeader {
			tsHeader = raw
			continue
		}
		if c, ok := models.ParseColumn(name); ok {
			present = present.With(c)
			headers[c] = raw
		}
	}
	if tsHeader == "" {
		return models.Dataset{}, malformed("parse", models.TimestampHeader, 0, "header has no Timestamp column", nil)
	}

	stamps := df.Col(tsHeader).Records()
	records := make([]models.Record, len(stamps))
	for i, s := range stamps {
		ts, err := ParseTimestamp(s)
		if err != nil {
			return models.Dataset{}, malformed("parse", models.TimestampHeader, i+2, "", err)
		}
		records[i] = models.NewRecord(ts)
	}

	for _, c := range models.AllColumns {
		header, ok := headers[c]
		if !ok {
			continue
		}
		for i, s := range df.Col(header).Records() {
			v, err := parseValue(s)
			if err != nil {
				return models.Dataset{}, malformed("parse", c.String(), i+2, "", err)
			}
			records[i].Set(c, v)
		}
	}

	return models.Dataset{Columns: present, Records: records}, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04",
}

// ParseTimestamp accepts the layouts the site loggers emit; results are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isMissingToken(s) {
		return nan, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	// ParseFloat accepts "inf", "infinity" and signed "nan"; none is a reading.
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func isMissingToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "<nil>":
		return true
	}
	return false
}
