package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviders(t *testing.T) {
	svc, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Catalog{}, svc)

	t.Setenv("OMDB_API_KEY", "from-env")
	svc, err = New(Options{Provider: ProviderOMDb, MaxResults: 3})
	require.NoError(t, err)
	o, ok := svc.(*OMDb)
	require.True(t, ok)
	assert.Equal(t, "from-env", o.apiKey)
	assert.Equal(t, 3, o.maxResults)

	_, err = New(Options{Provider: "imdb"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewOMDbWithoutKey(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	_, err := New(Options{Provider: ProviderOMDb})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
