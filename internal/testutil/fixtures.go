// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestingCSV is a small long-form testing feed.
//
//   - NY reports on all three days
//   - WA skips 2020-03-02 (missing cell)
//   - PR is a territory absent from PopulationCSV (dropped on normalize)
//   - Extra columns are ignored by ingestion
const TestingCSV = `date,state,positive,negative,totalTestResults,dataQualityGrade
20200303,NY,100,900,16384,A
20200303,WA,50,950,2048,B
20200303,PR,1,9,10,C
20200302,NY,80,720,8192,A
20200302,WA,,,,B
20200301,NY,40,360,4096,A
20200301,WA,20,180,1024,B
`

// PopulationCSV pairs with TestingCSV. Both populations are powers of two so
// per-million rates are exact in binary floating point:
// NY 16384 / 1048576 * 1e6 = 15625.
const PopulationCSV = `State,State_Code,2019 Estimate
New York,NY,"1,048,576"
Washington,WA,524288
California,CA,2097152
`

// WriteFile writes content under t.TempDir() and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
