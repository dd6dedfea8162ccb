package sheets

import (
	"context"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendlasvegas/SelfCheck/helpers"
)

func TestParseCellRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ref      string
		row, col int
		valid    bool
	}{
		{"A1", 0, 0, true},
		{"B27", 26, 1, true},
		{"b18", 17, 1, true},
		{"Z3", 2, 25, true},
		{"AA10", 9, 26, true},
		{"", 0, 0, false},
		{"27", 0, 0, false},
		{"B", 0, 0, false},
		{"B0", 0, 0, false},
		{"B2x", 0, 0, false},
	}
	for _, c := range cases {
		row, col, err := ParseCellRef(c.ref)
		if !c.valid {
			assert.True(t, errors.IsNotValid(err), c.ref)
			continue
		}
		require.NoError(t, err, c.ref)
		assert.Equal(t, c.row, row, c.ref)
		assert.Equal(t, c.col, col, c.ref)
	}
}

func TestReadCellAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMock()
	m.SetCell(TabCredentials, "B27", " 8.25% ")
	v, ok, err := ReadCell(ctx, m, TabCredentials, "B27")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "8.25%", v)

	for _, ref := range []string{"B28", "C27", "A27"} {
		v, ok, err = ReadCell(ctx, m, TabCredentials, ref)
		require.NoError(t, err)
		assert.False(t, ok, ref)
		assert.Equal(t, "", v)
	}

	_, _, err = ReadCell(ctx, m, "Missing", "A1")
	assert.True(t, errors.IsNotFound(errors.Cause(err)))
}

func TestDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "UPC,Brand,Name\n012345678905,Acme,\"Widget, large\"\n123\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "Inv.csv"), []byte(content), 0644))
	s := NewDir(dir)
	rows, err := LoadCatalog(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Widget, large", rows[1][2])
	assert.Equal(t, []string{"123"}, rows[2])

	_, err = s.ReadRows(context.Background(), TabLogin)
	assert.True(t, errors.IsNotFound(err))
}

func TestHTTP(t *testing.T) {
	t.Parallel()

	var gotURL string
	m := &helpers.MockHTTP{Fun: func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		if strings.Contains(gotURL, "sheet=Login") {
			return helpers.MockResponse(req, http.StatusNotFound, nil), nil
		}
		return helpers.MockResponse(req, http.StatusOK, []byte("a,b\nc\n")), nil
	}}
	s := NewHTTP("https://docs.invalid/export?format=csv&sheet={tab}", 0)
	s.Client = m.Client()
	rows, err := s.ReadRows(context.Background(), TabCredentials)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.invalid/export?format=csv&sheet=Credentials", gotURL)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, rows)
	assert.Equal(t, "http:docs.invalid", s.String())

	_, err = s.ReadRows(context.Background(), TabLogin)
	assert.True(t, errors.IsNotFound(err))

	failing := NewHTTP("https://docs.invalid/{tab}", 0)
	failing.Client = (&helpers.MockHTTP{Err: errors.New("network down")}).Client()
	_, err = failing.ReadRows(context.Background(), TabCatalog)
	assert.Error(t, err)
}

func TestColumnAndCSV(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"user", "pass"}, {" alice ", "x"}, {"bob"}}
	assert.Equal(t, []string{"alice", "bob"}, Column(rows, 0))
	assert.Equal(t, []string{"x", ""}, Column(rows, 1))
	assert.Nil(t, Column(rows[:1], 0))

	b, err := FormatCSV(rows)
	require.NoError(t, err)
	back, err := ParseCSV(strings.NewReader(string(b)))
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestFileWriter(t *testing.T) {
	t.Parallel()

	w := FileWriter{Dir: filepath.Join(t.TempDir(), "cred")}
	require.NoError(t, w.WriteFile("MachineID.txt", []byte("Prototype1001")))
	require.NoError(t, w.WriteFile("MachineID.txt", []byte("Prototype1002")))
	b, err := ioutil.ReadFile(w.Path("MachineID.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Prototype1002", string(b))
}
