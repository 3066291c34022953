package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/janadata/relay/pkg/credentials"
)

func TestEnvLookup(t *testing.T) {
	t.Setenv("RELAY_TEST_SECRET", "s3cret")

	v, ok := credentials.NewEnv().Lookup("RELAY_TEST_SECRET")
	assert.True(t, ok)
	assert.Equal(t, "s3cret", v)
}

func TestEnvLookupMissing(t *testing.T) {
	_, ok := credentials.NewEnv().Lookup("RELAY_TEST_SECRET_UNSET")
	assert.False(t, ok)
}

func TestEnvLookupBlankIsAbsent(t *testing.T) {
	t.Setenv("RELAY_TEST_SECRET_BLANK", "   ")

	_, ok := credentials.NewEnv().Lookup("RELAY_TEST_SECRET_BLANK")
	assert.False(t, ok)
}

func TestStaticLookup(t *testing.T) {
	store := credentials.Static{"DATA_GOV_API_KEY": "abc"}

	v, ok := store.Lookup("DATA_GOV_API_KEY")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = store.Lookup("OTHER")
	assert.False(t, ok)

	_, ok = credentials.Static{"K": ""}.Lookup("K")
	assert.False(t, ok)
}
