package datasource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	Register(DialectRegistration{
		Info: DialectInfo{Type: "fake-test", DisplayName: "Fake"},
		Factory: func(config map[string]any) (Dialect, error) {
			if config["fail"] == true {
				return nil, errors.New("boom")
			}
			return fakeDialect{maxParams: 10}, nil
		},
	})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "fake-test")
		registryMu.Unlock()
	})

	assert.True(t, IsRegistered("fake-test"))
	assert.Contains(t, RegisteredDialects(), DialectInfo{Type: "fake-test", DisplayName: "Fake"})

	d, err := NewDialect("fake-test", nil)
	require.NoError(t, err)
	assert.Equal(t, 10, d.MaxParams())

	_, err = NewDialect("fake-test", map[string]any{"fail": true})
	assert.EqualError(t, err, "boom")
}

func TestNewDialect_Unregistered(t *testing.T) {
	_, err := NewDialect("oracle", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}
