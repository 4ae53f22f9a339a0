package wire

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap/zaptest"

	"github.com/mithrel/sprout/internal/keys"
	"github.com/mithrel/sprout/internal/site"
)

func testConfig(t *testing.T) *viper.Viper {
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("cache.dsn", "mem://")
	v.Set("site.database_id", "db1")
	v.Set("build.out_dir", "out")
	v.Set("build.concurrency", 2)
	return v
}

func TestBuildApp(t *testing.T) {
	keyring.MockInit()
	cfg := testConfig(t)
	app, err := BuildApp(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	opts := app.BuildOptions()
	assert.Equal(t, "db1", opts.DatabaseID)
	assert.Equal(t, 2, opts.Concurrency)

	src, err := app.Source(true)
	require.NoError(t, err)
	assert.IsType(t, &site.CachedSource{}, src)

	_, err = app.Source(false)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, app.Tokens.Put(keys.TokenID, "from-keyring"))
	src, err = app.Source(false)
	require.NoError(t, err)
	assert.IsType(t, &site.RecordingSource{}, src)
	assert.Equal(t, "from-keyring", cfg.GetString("notion.token"))

	assert.False(t, app.TLSOptions().Enabled())
}

func TestBuildOptionsNormalizesIDs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Set("site.database_id", "https://www.notion.so/team/aaaabbbbccccddddeeeeffff00001111?v=1")
	cfg.Set("site.attach.page_id", "0123abcd01234abc8def0123456789ab")
	cfg.Set("site.attach.database_id", "9876fedc98764cba8fed9876543210fe")
	app, err := BuildApp(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	opts := app.BuildOptions()
	assert.Equal(t, "aaaabbbb-cccc-dddd-eeee-ffff00001111", opts.DatabaseID)
	assert.Equal(t, "0123abcd-0123-4abc-8def-0123456789ab", opts.AttachPageID)
	assert.Equal(t, "9876fedc-9876-4cba-8fed-9876543210fe", opts.AttachDatabaseID)
}

func TestBuildAppBadDSN(t *testing.T) {
	cfg := testConfig(t)
	cfg.Set("cache.dsn", "redis://x")
	_, err := BuildApp(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}
