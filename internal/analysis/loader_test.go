package analysis

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"solar_eda/internal/models"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadsSelectionWithAllColumns(t *testing.T) {
	l := NewLoader(mapOpener{"benin-malanville": csvFixture})

	ds, err := l.Load(context.Background(), Input{Key: "benin-malanville.csv"})
	require.NoError(t, err)

	assert.Equal(t, "benin-malanville", ds.Name)
	assert.Equal(t, SourceCatalog, ds.Source)
	require.Equal(t, 5, ds.Len())
	assert.Empty(t, ds.Columns.Missing(models.AllColumns))
	assert.WithinDuration(t, start, ds.Records[0].Timestamp, 0)
	assert.Equal(t, 101.0, ds.Records[0].Get(models.RH))
	assert.True(t, ds.Records[3].IsMissing(models.GHI))
	assert.True(t, ds.Records[4].IsMissing(models.RH))
	assert.Equal(t, -50.0, ds.Records[4].Get(models.GHI))
}

func TestLoader_UploadWinsOverSelection(t *testing.T) {
	l := NewLoader(errOpener{err: errors.New("must not be called")})

	ds, err := l.Load(context.Background(), Input{
		Key:        "benin-malanville",
		Upload:     strings.NewReader(csvFixture),
		UploadName: "mine.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "mine.csv", ds.Name)
	assert.Equal(t, SourceUpload, ds.Source)
	assert.Equal(t, 5, ds.Len())
}

func TestLoader_NotFound(t *testing.T) {
	cases := []struct {
		name   string
		opener Opener
		in     Input
	}{
		{"unknown key", mapOpener{}, Input{Key: "atlantis"}},
		{"empty key and no upload", mapOpener{"x": csvFixture}, Input{}},
		{"no opener", nil, Input{Key: "benin-malanville"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader(tc.opener).Load(context.Background(), tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NotErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestLoader_OpenFailureIsNotNotFound(t *testing.T) {
	_, err := NewLoader(errOpener{err: errors.New("permission denied")}).
		Load(context.Background(), Input{Key: "benin-malanville"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestParse_MalformedInput(t *testing.T) {
	header := "Timestamp,GHI,RH"
	cases := []struct {
		name string
		body string
		col  string
	}{
		{"empty input", "", ""},
		{"header only", header + "\n", ""},
		{"no timestamp column", csvWithRows("GHI,RH", "1,2"), models.TimestampHeader},
		{"bad timestamp", csvWithRows(header, "yesterday,1,2"), models.TimestampHeader},
		{"non numeric value", csvWithRows(header, "2021-08-09 00:01,abc,2"), "GHI"},
		{"ragged row", csvWithRows(header, "2021-08-09 00:01,1"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)

			var e *Error
			require.ErrorAs(t, err, &e)
			if tc.col != "" {
				assert.Equal(t, tc.col, e.Column)
			}
		})
	}
}

func TestParse_RejectsNonFiniteNumbers(t *testing.T) {
	const header = "Timestamp,GHI,Tamb,RH"
	tokens := []string{"inf", "+Inf", "-Inf", "Infinity", "-infinity", "+NaN", "1e400", "-1e400"}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			body := csvWithRows(header,
				"2021-08-09 00:01,10,25.0,60",
				"2021-08-09 00:02,12,"+tok+",61",
			)
			_, err := Parse(strings.NewReader(body))
			require.ErrorIs(t, err, ErrMalformedInput)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "Tamb", e.Column)
			assert.Equal(t, 3, e.Line)
		})
	}
}

func TestParse_MissingTokensAndLineNumbers(t *testing.T) {
	body := csvWithRows("Timestamp,GHI,RH",
		"2021-08-09 00:01,NaN,NA",
		"2021-08-09T00:02:00Z,,null",
		"2021-08-09 00:03,12.5,x",
	)
	_, err := Parse(strings.NewReader(body))
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "RH", e.Column)
	assert.Equal(t, 4, e.Line)

	ds, err := Parse(strings.NewReader(csvWithRows("Timestamp,GHI,RH",
		"2021-08-09 00:01,NaN,NA",
		"2021-08-09T00:02:00Z,,null",
	)))
	require.NoError(t, err)
	for _, r := range ds.Records {
		assert.True(t, r.IsMissing(models.GHI))
		assert.True(t, r.IsMissing(models.RH))
	}
	assert.True(t, ds.Columns.Has(models.GHI))
	assert.False(t, ds.Columns.Has(models.DNI))
}

func TestParse_ByteOrderMarkAndUnknownColumns(t *testing.T) {
	body := "\ufeffTimestamp,GHI,Comments\n2021-08-09 00:01,5,hello\n"
	ds, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 5.0, ds.Records[0].Get(models.GHI))
	assert.Equal(t, models.NewColumnSet(models.GHI), ds.Columns)
}

func TestLoader_CompressedUploads(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte(csvFixture))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zs := enc.EncodeAll([]byte(csvFixture), nil)
	require.NoError(t, enc.Close())

	for name, body := range map[string][]byte{"gzip": gz.Bytes(), "zstd": zs} {
		t.Run(name, func(t *testing.T) {
			ds, err := NewLoader(nil).Load(context.Background(), Input{Upload: bytes.NewReader(body)})
			require.NoError(t, err)
			assert.Equal(t, 5, ds.Len())
			assert.Equal(t, "upload.csv", ds.Name)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2021-08-09 00:01", "2021-08-09T00:01:00Z", "2021-08-09 00:01:00", "2021-08-09T00:01"} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.WithinDuration(t, start, ts, 0, s)
	}
	_, err := ParseTimestamp("09.08.2021")
	assert.Error(t, err)
}
