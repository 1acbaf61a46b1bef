package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestGetLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, L.Logger, G(ctx).Logger)

	custom := logrus.NewEntry(logrus.New())
	ctx = WithLogger(ctx, custom)
	assert.Equal(t, custom.Logger, G(ctx).Logger)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	require.NoError(t, ConfigureLogger(l, Config{Format: "json"}))

	ctx := WithLogger(context.Background(), logrus.NewEntry(l).WithField("component", "seed"))
	ctx = WithFields(ctx, logrus.Fields{"slug": "pdf"})
	G(ctx).Info("inserted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inserted", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "seed", entry["component"])
	assert.Equal(t, "pdf", entry["slug"])
	assert.Contains(t, entry, "timestamp")
}

func TestConfigureLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel logrus.Level
		wantJSON  bool
		wantErr   bool
	}{
		{name: "defaults", cfg: DefaultConfig(), wantLevel: logrus.InfoLevel},
		{name: "debug json", cfg: Config{Level: "debug", Format: "json"}, wantLevel: logrus.DebugLevel, wantJSON: true},
		{name: "upper case", cfg: Config{Level: "WARN", Format: "JSON"}, wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "fmt alias", cfg: Config{Level: "error", Format: "fmt"}, wantLevel: logrus.ErrorLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLogger()
			err := ConfigureLogger(l, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, l.GetLevel())
			_, isJSON := l.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestConfigureLoggerKeepsUnsetValues(t *testing.T) {
	l := newLogger()
	require.NoError(t, ConfigureLogger(l, Config{Level: "debug", Format: "json"}))
	require.NoError(t, ConfigureLogger(l, Config{}))

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
