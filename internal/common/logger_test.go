package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogOutputs(t *testing.T) {
	tests := []struct {
		outputs     []string
		wantConsole bool
		wantFile    bool
	}{
		{[]string{"stdout", "file"}, true, true},
		{[]string{" Console "}, true, false},
		{[]string{"file"}, false, true},
		{[]string{"syslog"}, false, false},
		{nil, false, false},
	}
	for _, tt := range tests {
		console, file := logOutputs(tt.outputs)
		assert.Equal(t, tt.wantConsole, console, "%v", tt.outputs)
		assert.Equal(t, tt.wantFile, file, "%v", tt.outputs)
	}
}

func TestInitLogger_SetsGlobal(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Logging.Output = []string{"file"}
	cfg.Logging.Dir = t.TempDir()

	loggerMutex.Lock()
	previous := globalLogger
	loggerMutex.Unlock()
	t.Cleanup(func() {
		loggerMutex.Lock()
		globalLogger = previous
		loggerMutex.Unlock()
	})

	assert.NotNil(t, InitLogger(cfg))
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	assert.NotNil(t, globalLogger)
}
