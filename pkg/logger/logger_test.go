package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const mockLogLevel int8 = 0

func TestGetReturnsSameInstance(t *testing.T) {
	l1 := Get(mockLogLevel, WithSink(DiscardSink()))
	l2 := Get(-1)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestGetReturnsNoopWhenGlobalNil(t *testing.T) {
	Get(mockLogLevel, WithSink(DiscardSink()))
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(mockLogLevel))
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestBuildWritesJSONToSink(t *testing.T) {
	var buf bytes.Buffer
	zl := build(-1, options{sink: zapcore.AddSync(&buf)})
	lgr := zapr.NewLogger(zl)

	lgr.V(1).Info("config saved", PathKey, "/home/u/.neovate/config.json")
	lgr.V(2).Info("too verbose")
	require.NoError(t, zl.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "config saved", entry[MessageKey])
	assert.Equal(t, "/home/u/.neovate/config.json", entry[PathKey])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestOpenSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nvset.log")
	ws, closeFn, err := OpenSink(path)
	require.NoError(t, err)
	defer closeFn()

	zl := build(0, options{sink: ws})
	zl.Info("hello")
	require.NoError(t, zl.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)

	_, _, err = OpenSink(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	lgr := Get(mockLogLevel, WithSink(DiscardSink()))
	ctx := WithLogger(context.Background(), lgr)
	assert.Same(t, lgr, FromContext(ctx))
	assert.Equal(t, ctx, WithLogger(ctx, lgr))

	other := logr.Discard()
	replaced := WithLogger(ctx, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	lgr := Get(mockLogLevel, WithSink(DiscardSink()))
	assert.Same(t, lgr, FromContext(context.Background()))
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	lgr := Get(mockLogLevel, WithSink(DiscardSink()))
	nl := WithValues(lgr, SubCommandKey, "show")
	require.NotNil(t, nl)
	assert.NotSame(t, lgr, nl)
}

func TestSyncWithoutLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()
	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EINVAL}))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestNoopLogger(t *testing.T) {
	assert.NotPanics(t, func() { GetNoopLogger().Info("nothing") })
}
