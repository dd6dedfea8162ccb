package subcmd

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	mods := []Mod{{Name: "run"}, {Name: "console"}}
	m, err := Parse("console", mods)
	require.NoError(t, err)
	assert.Equal(t, "console", m.Name)
	assert.Same(t, &mods[1], m)

	_, err = Parse("", mods)
	assert.True(t, errors.IsNotValid(err), err)
	_, err = Parse("tele", mods)
	assert.True(t, errors.IsNotFound(err), err)
	assert.Contains(t, err.Error(), "known: run, console")
}
