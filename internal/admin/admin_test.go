package admin

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendlasvegas/SelfCheck/internal/cart"
	"github.com/vendlasvegas/SelfCheck/internal/catalog"
	"github.com/vendlasvegas/SelfCheck/internal/sheets"
	"github.com/vendlasvegas/SelfCheck/log2"
	"golang.org/x/crypto/bcrypt"
)

func loginSource(t testing.TB) *sheets.Mock {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	m := sheets.NewMock()
	m.Set(sheets.TabLogin, [][]string{
		{"User", "Password"},
		{"alice", "plain"},
		{" bob ", string(hash)},
		{"", "orphan"},
		{"carol"},
	})
	return m
}

func TestVerifyLogin(t *testing.T) {
	t.Parallel()

	m := loginSource(t)
	ctx := context.Background()
	cases := []struct {
		name   string
		user   string
		pass   string
		expect error
	}{
		{"plain-ok", "alice", "plain", nil},
		{"bcrypt-ok", "bob", "s3cret", nil},
		{"plain-wrong", "alice", "Plain", ErrLoginFailed},
		{"bcrypt-wrong", "bob", "secret", ErrLoginFailed},
		{"unknown", "dave", "plain", ErrLoginFailed},
		{"empty-stored", "carol", "x", ErrLoginFailed},
		{"header-row", "User", "Password", ErrLoginFailed},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			err := VerifyLogin(ctx, m, c.user, c.pass)
			if c.expect == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, c.expect, errors.Cause(err))
			}
		})
	}
}

func TestVerifyLoginEmpty(t *testing.T) {
	t.Parallel()

	err := VerifyLogin(context.Background(), loginSource(t), "  ", "x")
	assert.True(t, errors.IsNotValid(err))
}

func TestVerifyLoginSourceError(t *testing.T) {
	t.Parallel()

	m := loginSource(t)
	m.SetErr(errors.New("offline"))
	err := VerifyLogin(context.Background(), m, "alice", "plain")
	require.Error(t, err)
	assert.NotEqual(t, ErrLoginFailed, errors.Cause(err))
	assert.Contains(t, err.Error(), "offline")
}

func TestExportCells(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := sheets.FileWriter{Dir: dir}
	m := sheets.NewMock()
	m.SetCell(sheets.TabCredentials, "B10", "svc@example.com")
	m.SetCell(sheets.TabCredentials, "B12", " folder-1 ")
	m.SetCell(sheets.TabCredentials, "B16", "KIOSK-7")

	written, err := ExportCells(context.Background(), m, w, CredentialExports)
	require.NoError(t, err)
	assert.Len(t, written, len(CredentialExports))
	expect := map[string]string{
		"Cloudflared_Host":    "",
		"GoogleFolderID.txt":  "folder-1",
		"MachineID.txt":       "KIOSK-7",
		"GoogleCredEmail.txt": "svc@example.com",
	}
	for name, value := range expect {
		b, err := ioutil.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, value, string(b), name)
	}
	assert.Equal(t, 1, m.Calls)
}

func TestExportTabs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := sheets.NewMock()
	m.Set(sheets.TabCatalog, [][]string{{"UPC", "Brand"}, {"012345678905", "Acme, Inc"}})

	written, err := ExportTabs(context.Background(), m, sheets.FileWriter{Dir: dir}, LocationTabExports)
	assert.Equal(t, []string{"upc_catalog.csv"}, written)
	require.Error(t, err)
	assert.Contains(t, err.Error(), sheets.TabHours)

	b, err := ioutil.ReadFile(filepath.Join(dir, "upc_catalog.csv"))
	require.NoError(t, err)
	assert.Equal(t, "UPC,Brand\n012345678905,\"Acme, Inc\"\n", string(b))
}

func TestPortalURL(t *testing.T) {
	t.Parallel()

	m := sheets.NewMock()
	m.SetCell(sheets.TabCredentials, "A1", "Key")
	url, err := PortalURL(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "", url)

	m.SetCell(sheets.TabCredentials, RefPortalURL, "https://portal.example.com/")
	url, err = PortalURL(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.com/", url)
}

type refreshEnv struct {
	source    *sheets.Mock
	snapshot  *catalog.Snapshot
	refresher *Refresher
}

func newRefreshEnv(t testing.TB) *refreshEnv {
	dir := t.TempDir()
	log := log2.NewTest(t, log2.LDebug)
	env := &refreshEnv{source: sheets.NewMock(), snapshot: &catalog.Snapshot{}}
	env.snapshot.Init(dir, true, log)
	env.refresher = &Refresher{
		Source:   env.source,
		Snapshot: env.snapshot,
		TaxPath:  filepath.Join(dir, "Tax.json"),
		Log:      log,
	}
	return env
}

var catalogSheet = [][]string{
	{"UPC", "Brand", "Name", "Calories", "Size", "Sugar", "Sodium", "x", "Price", "Taxable", "OnHand", "Image"},
	{"012345678905", "Acme", "Cola", "140", "12oz", "39g", "45mg", "", "$1.50", "yes", "20", "cola.png"},
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	env := newRefreshEnv(t)
	env.source.Set(sheets.TabCatalog, catalogSheet)
	env.source.SetCell(sheets.TabCredentials, RefTaxRate, "8.25%")

	result, err := env.refresher.Refresh(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, result.FromSnap)
	assert.Equal(t, 1, result.Index.Len())
	require.NoError(t, result.TaxErr)
	require.NotNil(t, result.TaxRate)
	assert.Equal(t, "8.25", result.TaxRate.String())

	rate, err := cart.LoadTaxRate(env.refresher.TaxPath)
	require.NoError(t, err)
	assert.Equal(t, "8.25", rate.String())
}

func TestRefreshTaxMissing(t *testing.T) {
	t.Parallel()

	env := newRefreshEnv(t)
	env.source.Set(sheets.TabCatalog, catalogSheet)

	result, err := env.refresher.Refresh(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Index.Len())
	assert.Nil(t, result.TaxRate)
	assert.Equal(t, cart.ErrConfigUnavailable, errors.Cause(result.TaxErr))
}

func TestRefreshSnapshotFallback(t *testing.T) {
	t.Parallel()

	env := newRefreshEnv(t)
	env.source.Set(sheets.TabCatalog, catalogSheet)
	_, err := env.refresher.Refresh(context.Background(), true)
	require.NoError(t, err)

	env.source.SetErr(errors.New("offline"))
	_, err = env.refresher.Refresh(context.Background(), false)
	assert.Equal(t, catalog.ErrCatalogUnavailable, errors.Cause(err))

	result, err := env.refresher.Refresh(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, result.FromSnap)
	assert.Equal(t, 1, result.Index.Len())
	assert.Nil(t, result.TaxRate)
}

func TestRefreshNoSnapshot(t *testing.T) {
	t.Parallel()

	env := newRefreshEnv(t)
	env.source.SetErr(errors.New("offline"))
	_, err := env.refresher.Refresh(context.Background(), true)
	assert.Equal(t, catalog.ErrCatalogUnavailable, errors.Cause(err))
}
