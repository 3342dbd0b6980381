package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCertificationTableIsEmpty(t *testing.T) {
	m, err := parseCertifications(certificationsYAML)
	require.NoError(t, err)
	assert.Empty(t, m, "labels come from certification_labels")
	assert.NotNil(t, defaultCertifications())
}

func TestCertificationLabelsFillEmptyTable(t *testing.T) {
	a := NewAdapter(nil, nil, WithCertificationLabels(map[string]string{"{abcd-0400}": "VESA DisplayHDR 400"}))
	assert.Equal(t, map[string]string{"ABCD-0400": "VESA DisplayHDR 400"}, a.certs)
}

func TestParseCertifications(t *testing.T) {
	m, err := parseCertifications([]byte(`
- guid: "{abc-def}"
  label: Example
- guid: ""
  label: dropped
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ABC-DEF": "Example"}, m)

	_, err = parseCertifications([]byte("guid: [unterminated"))
	assert.Error(t, err)
}
