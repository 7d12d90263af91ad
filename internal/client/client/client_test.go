package client

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/postit/internal/client/session"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	store := session.NewMemoryStore()

	t.Run("requires store", func(t *testing.T) {
		_, err := NewClient("http://localhost:8080/api", nil)
		require.Error(t, err)
	})

	t.Run("defaults base url", func(t *testing.T) {
		c, err := NewClient("", store)
		require.NoError(t, err)
		require.Equal(t, DefaultBaseURL, c.BaseURL())
		require.Same(t, store, c.Session())
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := NewClient("https://postit.example.com/api/", store)
		require.NoError(t, err)
		require.Equal(t, "https://postit.example.com/api", c.BaseURL())
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		_, err := NewClient("ftp://postit.example.com", store)
		require.ErrorContains(t, err, "scheme must be http or https")
	})

	t.Run("applies options", func(t *testing.T) {
		c, err := NewClient("", store, WithTimeout(5*time.Second), WithUserAgent("test-agent"))
		require.NoError(t, err)
		require.Equal(t, "test-agent", c.userAgent)
		require.Equal(t, 5*time.Second, c.httpClient.Timeout)
	})
}
