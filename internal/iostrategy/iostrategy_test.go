package iostrategy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnames/gn"
	"github.com/google/uuid"
	"github.com/p1data/p1db/internal/iostrategy"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url, key string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptServicesStrategyURL(url),
		config.OptServicesStrategyAPIKey(key),
	})
	return cfg
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
			assert.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "deepseek-chat", body["model"])
			assert.Equal(t, 0.7, body["temperature"])
			assert.Equal(t, 2500.0, body["max_tokens"])
			msgs := body["messages"].([]any)
			require.Len(t, msgs, 2)
			assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
			assert.Equal(t, "my prompt", msgs[1].(map[string]any)["content"])

			w.Write([]byte(`{"choices": [{"message":
				{"role": "assistant", "content": "Register early."}}]}`))
		}))
	defer srv.Close()

	gen := iostrategy.New(testConfig(srv.URL, "sk-test"))
	assert.Equal(t, "deepseek", gen.Service())
	res, err := gen.Generate(context.Background(), "system", "my prompt")
	require.NoError(t, err)
	assert.Equal(t, "Register early.", res)
}

func TestGenerateNoKey(t *testing.T) {
	for _, key := range []string{"", "your-deepseek-api-key-here"} {
		cfg := config.New()
		if key != "" {
			cfg.Update([]config.Option{config.OptServicesStrategyAPIKey(key)})
		}
		_, err := iostrategy.New(cfg).Generate(context.Background(), "s", "p")
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.ServiceNotConfiguredError, gnErr.Code)
	}
}

func TestGenerateEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
	defer srv.Close()

	_, err := iostrategy.New(testConfig(srv.URL, "sk-test")).
		Generate(context.Background(), "s", "p")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ServiceDecodeError, gnErr.Code)
}
