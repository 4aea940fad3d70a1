package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DevWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, EnvDev)
	log.Debug("hello", Err(errors.New("boom")))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "boom", rec["error"])
	require.Equal(t, "dev", rec["env"])
}

func TestNew_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, EnvProd)
	log.Debug("hidden")
	require.Zero(t, buf.Len())
	log.Info("shown")
	require.True(t, strings.Contains(buf.String(), "msg=shown"))
}

func TestErr_Nil(t *testing.T) {
	require.Equal(t, "", Err(nil).Value.String())
}
