package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/logging"
)

func Test_New_Writes_JSON_With_Component_Field(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})

	logging.Component(logger, "SyncService").WithField("entity_id", 7).Info("challenge issued")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "SyncService", line["component"])
	assert.Equal(t, "challenge issued", line["msg"])
	assert.EqualValues(t, 7, line["entity_id"])
}

func Test_New_Falls_Back_To_Info_For_Unknown_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "chatty", Output: &buf})

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
}

func Test_LogError_Attaches_Context(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "error", Output: &buf})

	logging.LogError(logger, "SQLStore", "ApplyReviewSync", "update checklist", map[string]int64{"entity_id": 3}, errors.New("disk full"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "disk full", line["msg"])
	assert.Equal(t, "ApplyReviewSync", line["funcName"])
	assert.NotNil(t, line["data"])
}
