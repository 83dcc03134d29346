package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodsJSON(t *testing.T) {
	out, err := execute(t, NewMethodsCommand(&RootOptions{Format: "json"}))
	require.NoError(t, err)

	var infos []MethodInfo
	decodeResponse(t, out, &infos)
	require.Len(t, infos, 6)
	assert.Equal(t, MethodInfo{Name: "riemann-left", Order: 1, Degree: 0, Step: 1}, infos[0])
	assert.Equal(t, MethodInfo{Name: "simpson", Order: 4, Degree: 3, Step: 2}, infos[4])
	assert.Equal(t, MethodInfo{Name: "bode", Order: 6, Degree: 5, Step: 4}, infos[5])
}

func TestMethodsText(t *testing.T) {
	out, err := execute(t, NewMethodsCommand(&RootOptions{Format: "text"}))
	require.NoError(t, err)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "trapezoid")
	assert.Contains(t, out, "bode                 6      5    4")
}
