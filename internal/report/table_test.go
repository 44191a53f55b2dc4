package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestTableWrite(t *testing.T) {
	table := Table{
		Fields: []string{"a", "b"},
		Rows: []map[string]string{
			{"a": "1", "b": "x, y"},
			{"a": "2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, table.Write(&buf))
	assert.Equal(t, "a,b\n1,\"x, y\"\n2,\n", buf.String())
}

func TestTableWriteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	table := Table{Fields: []string{"only"}, Rows: []map[string]string{{"only": "v"}}}

	require.NoError(t, table.WriteFile(path))
	assert.Equal(t, [][]string{{"only"}, {"v"}}, readCSV(t, path))
}
