package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendlasvegas/SelfCheck/log2"
)

var testHeader = []string{"UPC", "Brand", "Name", "-", "Size", "Calories", "Sugar", "Sodium", "Price", "Taxable", "QTY", "Image"}

func TestLookupScenario(t *testing.T) {
	t.Parallel()

	row := []string{"012345678905", "Acme", "Widget", "", "1ct", "100", "5", "10", "$2.50", "yes", "7", "img.png"}
	idx := BuildSheet([][]string{testHeader, row})
	require.Equal(t, 1, idx.Len())

	rec, ok := idx.Lookup("12345678905")
	require.True(t, ok)
	assert.Equal(t, "012345678905", rec.UPC)
	assert.Equal(t, "Acme Widget 1ct", rec.DisplayName())
	assert.Equal(t, "$2.50", rec.Price)
	assert.Equal(t, "img.png", rec.Image)

	_, ok = idx.Lookup("0012345678905")
	assert.True(t, ok)
	_, ok = idx.Lookup("999")
	assert.False(t, ok)
	_, ok = idx.Lookup("")
	assert.False(t, ok)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		rows       [][]string
		expectLen  int
		collisions int
		skipped    int
		check      func(testing.TB, *Index)
	}{
		{name: "empty", rows: nil},
		{name: "skip-empty-upc", rows: [][]string{{"", "x"}, {"  "}, {"123456789012", "y"}}, expectLen: 1, skipped: 2},
		{name: "short-row-padded", rows: [][]string{{"11111111111"}}, expectLen: 1,
			check: func(t testing.TB, idx *Index) {
				rec := idx.MustLookup("011111111111")
				assert.Equal(t, "", rec.Image)
				assert.Equal(t, "", rec.DisplayName())
			}},
		{name: "collision-last-wins", rows: [][]string{
			{"012345678905", "first"},
			{"12345678905", "second"},
		}, expectLen: 2, collisions: 2,
			check: func(t testing.TB, idx *Index) {
				assert.Equal(t, "second", idx.MustLookup("012345678905").Brand)
			}},
		{name: "duplicate-same-row-not-collision", rows: [][]string{{"0-12345-67890-5"}}, expectLen: 1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			idx := Build(c.rows)
			assert.Equal(t, c.expectLen, idx.Len())
			assert.Equal(t, c.collisions, idx.Collisions())
			assert.Equal(t, c.skipped, idx.Skipped())
			if c.check != nil {
				c.check(t, idx)
			}
		})
	}
}

func TestLookupLeftInverse(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 300)
	for i := 0; i < 100; i++ {
		rows = append(rows,
			[]string{fmt.Sprintf("0%011d", 20000000000+i*7)},
			[]string{fmt.Sprintf("%013d", 4000000000000+i*13)},
			[]string{fmt.Sprintf("%014d", 50000000000000+i*11)},
		)
	}
	idx := Build(rows)
	require.Equal(t, 0, idx.Collisions())
	for _, rec := range idx.Records() {
		got, ok := idx.Lookup(rec.UPC)
		require.True(t, ok, rec.UPC)
		assert.Same(t, rec, got)
	}
}

func TestStoreSwap(t *testing.T) {
	t.Parallel()

	s := NewStore(log2.NewTest(t, log2.LDebug))
	assert.Equal(t, 0, s.Len())
	_, ok := s.Lookup("123")
	assert.False(t, ok)

	first := Build([][]string{{"123456789012"}})
	old := s.Swap(first)
	assert.Equal(t, 0, old.Len())
	assert.Equal(t, 1, s.Len())

	held := s.Load()
	s.Swap(nil)
	assert.Equal(t, 0, s.Len())
	_, ok = held.Lookup("123456789012")
	assert.True(t, ok, "old snapshot stays consistent")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	root := t.TempDir()
	sheet := [][]string{testHeader, {"012345678905", "Acme"}}

	s1 := &Snapshot{}
	s1.Init(root, true, log)
	got, err := s1.Restore()
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, s1.Save(sheet))

	s2 := &Snapshot{}
	s2.Init(root, true, log)
	got, err = s2.Restore()
	require.NoError(t, err)
	assert.Equal(t, sheet, got)
	assert.Equal(t, 1, BuildSheet(got).Len())
}
