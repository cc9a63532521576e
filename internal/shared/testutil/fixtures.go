package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MergedHeader is the canonical merged dataset header row
const MergedHeader = "period,eruption_count,avg_vei,max_vei,total_streams,track_count,top_genre"

// TwoWeekCSV is a small, fully valid merged dataset
const TwoWeekCSV = MergedHeader + "\n" +
	"2017-01-02/2017-01-08,2,1.5,3,2500000000,180,pop\n" +
	"2017-01-09/2017-01-15,0,0,0,2600000000,175,rock\n"

// FiveWeekCSV spans two years with a repeated genre
const FiveWeekCSV = MergedHeader + "\n" +
	"2017-01-02/2017-01-08,1,1.0,2,2000000000,150,pop\n" +
	"2017-06-05/2017-06-11,3,2.0,4,2100000000,160,rock\n" +
	"2018-01-01/2018-01-07,0,0,0,2200000000,170,pop\n" +
	"2018-03-05/2018-03-11,2,1.5,3,2300000000,180,hip hop\n" +
	"2018-07-02/2018-07-08,0,0,0,2400000000,190,unknown\n"

// WriteFile writes content to name inside a per-test temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
