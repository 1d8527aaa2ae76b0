package analysis

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"
	"time"

	"solar_eda/internal/models"
)

var (
	nan0  = math.NaN()
	start = time.Date(2021, 8, 9, 0, 1, 0, 0, time.UTC)
)

// qualityFixture is the five-row frame used across the cleaning tests:
// GHI=[200,250,300,NaN,-50], RH=[101,85,70,55,NaN], Cleaning=[1,0,0,1,0].
func qualityFixture() models.Dataset {
	cols := map[models.Column][]float64{
		models.GHI:      {200, 250, 300, nan0, -50},
		models.DNI:      {150, 200, 0, 350, 300},
		models.DHI:      {50, 100, 150, 200, nan0},
		models.RH:       {101, 85, 70, 55, nan0},
		models.Cleaning: {1, 0, 0, 1, 0},
		models.ModA:     {190, 240, 290, 10, 0},
		models.ModB:     {185, 235, 280, 12, 0},
		models.WS:       {1.2, 0.8, 2.5, 3.1, 0.4},
		models.WSgust:   {1.9, 1.1, 3.0, 4.0, 0.9},
		models.WD:       {120, 90, 180, 270, 45},
		models.Tamb:     {26.1, 27.4, 29.0, 25.3, 24.8},
		models.BP:       {994, 995, 994, 996, 997},
		models.TModA:    {30.2, 33.1, 38.4, 25.0, 24.1},
		models.TModB:    {29.8, 32.0, 36.9, 24.7, 24.0},
	}
	return buildDataset("fixture", 5, cols)
}

func buildDataset(name string, n int, cols map[models.Column][]float64) models.Dataset {
	ds := models.Dataset{Name: name, Source: SourceCatalog, Records: make([]models.Record, n)}
	for i := range ds.Records {
		ds.Records[i] = models.NewRecord(start.Add(time.Duration(i) * time.Minute))
	}
	for c, values := range cols {
		ds.Columns = ds.Columns.With(c)
		for i, v := range values {
			ds.Records[i].Set(c, v)
		}
	}
	return ds
}

// csvFixture renders qualityFixture-like rows as text in the site file layout.
const csvFixture = `Timestamp,GHI,DNI,DHI,ModA,ModB,Tamb,RH,WS,WSgust,WSstdev,WD,WDstdev,BP,Cleaning,Precipitation,TModA,TModB,Comments
2021-08-09 00:01,200,150,50,190,185,26.1,101,1.2,1.9,0.1,120,5.0,994,1,0,30.2,29.8,
2021-08-09 00:02,250,200,100,240,235,27.4,85,0.8,1.1,0.2,90,4.2,995,0,0,33.1,32.0,
2021-08-09 00:03,300,0,150,290,280,29.0,70,2.5,3.0,0.3,180,3.3,994,0,0,38.4,36.9,
2021-08-09 00:04,,350,200,10,12,25.3,55,3.1,4.0,0.1,270,2.8,996,1,0,25.0,24.7,
2021-08-09 00:05,-50,300,,0,0,24.8,,0.4,0.9,0.0,45,1.0,997,0,0,24.1,24.0,
`

func csvWithRows(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

// mapOpener serves datasets from memory; unknown keys wrap fs.ErrNotExist.
type mapOpener map[string]string

func (m mapOpener) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q: %w", key, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// errOpener fails every open with err.
type errOpener struct{ err error }

func (e errOpener) Open(context.Context, string) (io.ReadCloser, error) { return nil, e.err }
