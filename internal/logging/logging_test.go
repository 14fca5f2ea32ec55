package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/clinic-console/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"upper case warn", "WARN", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"off", "off", zerolog.Disabled},
		{"default info", "", zerolog.InfoLevel},
		{"unknown", "chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, logging.ParseLevel(tt.level))
		})
	}
}

func TestSetupWritesJSONOutsideDev(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logging.SetupWithWriter("info", "PROD", &buf)
	log.Info().Str("component", "dispatcher").Msg("ready")

	require.Contains(t, buf.String(), `"component":"dispatcher"`)
	require.Contains(t, buf.String(), `"message":"ready"`)
}

func TestSetupRespectsLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logging.SetupWithWriter("error", "PROD", &buf)
	log.Info().Msg("hidden")

	require.Empty(t, buf.String())
}
