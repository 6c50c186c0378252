package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-verify/internal/webhook"
	"webhook-verify/internal/webhook/providers"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "slack", Key("slack", ""))
	assert.Equal(t, "slack#account-2", Key("slack", "account-2"))
}

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		reg := New()
		err := reg.Register("github", Entry{Provider: providers.NewGitHub([]byte("s1"))})
		require.NoError(t, err)

		entry, err := reg.Lookup("github")
		require.NoError(t, err)
		assert.Equal(t, "github", entry.Provider.Name())
	})

	t.Run("defaults applied on registration", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register("github", Entry{Provider: providers.NewGitHub([]byte("s1"))}))

		entry, err := reg.Lookup("github")
		require.NoError(t, err)
		assert.Equal(t, int64(DefaultMaxBodySize), entry.MaxBodySize)
		assert.Equal(t, webhook.DefaultTolerance(), entry.Tolerance)
	})

	t.Run("explicit settings preserved", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register("github", Entry{
			Provider:    providers.NewGitHub([]byte("s1")),
			MaxBodySize: 1 << 20,
			Tolerance:   webhook.Tolerance{Past: 60, Future: 5},
		}))

		entry, err := reg.Lookup("github")
		require.NoError(t, err)
		assert.Equal(t, int64(1<<20), entry.MaxBodySize)
		assert.Equal(t, webhook.Tolerance{Past: 60, Future: 5}, entry.Tolerance)
	})

	t.Run("unknown key is not attached", func(t *testing.T) {
		reg := New()
		_, err := reg.Lookup("stripe")
		assert.True(t, webhook.IsKind(err, webhook.ErrKindNotAttached))
	})

	t.Run("duplicate key rejected", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register("slack", Entry{Provider: providers.NewSlack([]byte("s1"))}))
		err := reg.Register("slack", Entry{Provider: providers.NewSlack([]byte("s2"))})
		assert.Error(t, err)
	})

	t.Run("nil provider rejected", func(t *testing.T) {
		reg := New()
		assert.Error(t, reg.Register("slack", Entry{}))
	})

	t.Run("markers keep accounts separate", func(t *testing.T) {
		reg := New()
		require.NoError(t, reg.Register(Key("slack", ""), Entry{Provider: providers.NewSlack([]byte("s1"))}))
		require.NoError(t, reg.Register(Key("slack", "account-2"), Entry{Provider: providers.NewSlack([]byte("s2"))}))

		assert.Equal(t, []string{"slack", "slack#account-2"}, reg.Keys())
	})

	t.Run("close destroys provider secrets", func(t *testing.T) {
		github := providers.NewGitHub([]byte("s1"))
		reg := New()
		require.NoError(t, reg.Register("github", Entry{Provider: github}))

		reg.Close()
		assert.Nil(t, github.Key())
		_, err := reg.Lookup("github")
		assert.True(t, webhook.IsKind(err, webhook.ErrKindNotAttached))
	})
}
