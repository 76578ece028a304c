package castwave

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "Castwave/v1 GoBindings/"+Version, userAgent())
}

func TestClientUserAgentIsJSON(t *testing.T) {
	var fingerprint map[string]string
	require.NoError(t, json.Unmarshal([]byte(clientUserAgent()), &fingerprint))

	assert.Equal(t, Version, fingerprint["bindings_version"])
	assert.Equal(t, "go", fingerprint["lang"])
	assert.Equal(t, runtime.Version(), fingerprint["lang_version"])
	assert.Equal(t, "castwave", fingerprint["publisher"])
	assert.Contains(t, fingerprint["platform"], runtime.GOOS)
}
