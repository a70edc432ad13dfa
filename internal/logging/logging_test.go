package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/nthderiv/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Level: "debug", Format: logging.FormatJSON, Output: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("order", 3).Debug("derivative chain truncated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "derivative chain truncated", entry["msg"])
	assert.Equal(t, float64(3), entry["order"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_TextDefaults(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Output: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(logging.Options{Level: "loud"})
	assert.Error(t, err)

	_, err = logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}
