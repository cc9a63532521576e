package exporter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/shared/testutil"
	"volcanotrends/pkg/contracts/domain"
)

func sampleRecords(t *testing.T) []domain.Record {
	t.Helper()
	records, err := dataprocessing.ParseCSVString(testutil.FiveWeekCSV)
	require.NoError(t, err)
	return records
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	records := sampleRecords(t)

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(WriteOptions{}).WriteRecords(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, testutil.MergedHeader, lines[0])
	assert.Equal(t, "2017-01-02/2017-01-08,1,1,2,2000000000,150,pop", lines[1])

	parsed, err := dataprocessing.ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestCSVWriter_BOMStillParses(t *testing.T) {
	records := dataprocessing.NewSyntheticGenerator(3).Generate()

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(WriteOptions{BOMPrefix: true}).WriteRecords(&buf, records))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

	parsed, err := dataprocessing.ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)
}

func TestCSVWriter_WriteFile(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "nested", "dir", "merged.csv")

	require.NoError(t, NewCSVWriter(WriteOptions{Logger: logger}).WriteFile(path, sampleRecords(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(data), "\n"))
}

func TestXLSXWriter_Write(t *testing.T) {
	records := sampleRecords(t)
	ds := dataprocessing.NewDataset(records, domain.SourceFile, "merged.csv", time.Now())
	dash := dataprocessing.BuildDashboard(ds, dataprocessing.DefaultDashboardOptions())

	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, dash, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRecords, SheetSummary, SheetYearly, SheetGenres}, f.GetSheetList())

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, domain.DatasetColumns, rows[0])
	assert.Equal(t, "2018-03-05/2018-03-11", rows[4][0])
	assert.Equal(t, "hip hop", rows[4][6])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total eruptions", "6"}, summary[4])
	assert.Equal(t, dash.Insights.Correlation, summary[len(summary)-1][1])

	yearly, err := f.GetRows(SheetYearly)
	require.NoError(t, err)
	assert.Len(t, yearly, 3)
	assert.Equal(t, "2017", yearly[1][0])

	genres, err := f.GetRows(SheetGenres)
	require.NoError(t, err)
	assert.Equal(t, []string{"pop", "2", "50"}, genres[1])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "XLSX", want: FormatXLSX},
		{in: " xlsx ", want: FormatXLSX},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport(t *testing.T) {
	records := sampleRecords(t)
	dash := dataprocessing.BuildDashboard(
		dataprocessing.NewDataset(records, domain.SourceFile, "", time.Now()),
		dataprocessing.DefaultDashboardOptions())

	var csvBuf, xlsxBuf bytes.Buffer
	require.NoError(t, Export(&csvBuf, FormatCSV, dash, records))
	require.NoError(t, Export(&xlsxBuf, FormatXLSX, dash, records))
	assert.True(t, bytes.HasPrefix(xlsxBuf.Bytes(), []byte("PK")), "xlsx is a zip archive")

	err := Export(&bytes.Buffer{}, Format("pdf"), dash, records)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, "volcano_streaming_dataset.xlsx", FormatXLSX.FileName())
}
