package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAuthenticatedIffCredential(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"token", "tok123", true},
		{"empty token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			assert.False(t, s.IsAuthenticated())

			s.SetCredential(tt.token, "a@b.c")
			assert.Equal(t, tt.want, s.IsAuthenticated())

			s.ClearCredential()
			assert.False(t, s.IsAuthenticated())
			assert.Empty(t, s.Credential())
			assert.Empty(t, s.Email())
		})
	}
}

func TestStoreGenerationAdvances(t *testing.T) {
	s := NewStore()
	g0 := s.Generation()

	s.SetCredential("t", "e")
	g1 := s.Generation()
	assert.NotEqual(t, g0, g1)
	assert.True(t, s.Current(g1))

	s.ClearCredential()
	assert.False(t, s.Current(g1))

	s.SetCredential("t", "e")
	assert.False(t, s.Current(g1), "a new login is a new session instance")
}

func openVault(t *testing.T) *Vault {
	t.Helper()
	v, err := OpenVault(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestVaultSaveLoadDelete(t *testing.T) {
	v := openVault(t)

	missing, err := v.Load("http://localhost:8000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	saved, err := v.Save("http://localhost:8000", "a@b.c", "tok1")
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)

	again, err := v.Save("http://localhost:8000", "a@b.c", "tok2")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID, "one credential per backend")

	loaded, err := v.Load("http://localhost:8000")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok2", loaded.Token)

	_, err = v.Save("https://trace.example.org", "x@y.z", "tok3")
	require.NoError(t, err)
	all, err := v.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, v.Delete("http://localhost:8000"))
	require.NoError(t, v.Delete("http://localhost:8000"))
	loaded, err = v.Load("http://localhost:8000")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPersisterRoundTrip(t *testing.T) {
	v := openVault(t)
	p := NewPersister(v, "http://localhost:8000")

	s := NewStore()
	s.SetCredential("tok123", "a@b.c")
	require.NoError(t, p.Remember(s))

	restored := NewStore()
	found, err := p.Restore(restored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok123", restored.Credential())
	assert.Equal(t, "a@b.c", restored.Email())

	require.NoError(t, p.Forget())
	found, err = p.Restore(NewStore())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilPersisterIsEphemeral(t *testing.T) {
	p := NewPersister(nil, "http://localhost:8000")
	assert.Nil(t, p)

	s := NewStore()
	s.SetCredential("tok", "e")
	assert.NoError(t, p.Remember(s))
	assert.NoError(t, p.Forget())

	found, err := p.Restore(NewStore())
	assert.NoError(t, err)
	assert.False(t, found)
}
