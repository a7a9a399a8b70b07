package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash-password", "--cost", "4", "s3cret"})
	require.NoError(t, rootCmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestOptionalProviders(t *testing.T) {
	cfg := &config.Config{CSRF: config.CSRFConfig{SingleUse: true}}

	// 未启用Redis时返回nil接口
	assert.Nil(t, provideSessionStore(nil))
	assert.Nil(t, provideBlacklist(nil))
	assert.Nil(t, provideUsedTokenStore(cfg, nil))

	publisher, cleanup, err := providePublisher(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, mq.NopPublisher{}, publisher)
}

func TestInitializeApp_Memory(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOOKSHELF_DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("BOOKSHELF_SERVER_MODE", "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, cfg, app.Config)
	routes := map[string]bool{}
	for _, r := range app.Engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	assert.True(t, routes["GET /api/v1/books"])
	assert.True(t, routes["POST /admin/books/bulk-delete"])
}
