package admin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/filevault/server/internal/listener"
	"github.com/filevault/server/internal/logger"
	"github.com/filevault/server/internal/router"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	log, err := logger.New(zapcore.ErrorLevel)
	require.NoError(t, err)
	t.Cleanup(log.Close)

	sup := listener.New("127.0.0.1:0", router.NewRegistry(), "HTTP/1.1", "filevault-test", log, logrus.New())
	require.NoError(t, sup.Start())
	t.Cleanup(func() { _ = sup.Stop() })

	var out bytes.Buffer
	return New(sup, log, "filevault-test", &out), &out
}

func TestStatusReflectsRunningState(t *testing.T) {
	c, out := newTestConsole(t)

	c.dispatch(".status")
	assert.Contains(t, out.String(), "running")
}

func TestShutdownThenStatusStopped(t *testing.T) {
	c, out := newTestConsole(t)

	c.dispatch(".shutdown")
	out.Reset()
	c.dispatch(".status")
	assert.Contains(t, out.String(), "stopped")
}

func TestEndRefusedWhileRunning(t *testing.T) {
	c, out := newTestConsole(t)

	done := c.dispatch(".end")
	assert.False(t, done)
	assert.Contains(t, out.String(), "refusing")
}

func TestEndSucceedsAfterShutdown(t *testing.T) {
	c, _ := newTestConsole(t)

	c.dispatch(".shutdown")
	done := c.dispatch(".end")
	assert.True(t, done)
}

func TestHelpListsCommands(t *testing.T) {
	c, out := newTestConsole(t)

	c.dispatch(".help")
	assert.True(t, strings.Contains(out.String(), ".shutdown"))
}

func TestUnknownCommand(t *testing.T) {
	c, out := newTestConsole(t)

	c.dispatch(".bogus")
	assert.Contains(t, out.String(), "unknown command")
}
