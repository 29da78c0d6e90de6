package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagPrefix(t *testing.T) {
	assert.Equal(t, "ESS-", NormalizeTagPrefix("ESS"))
	assert.Equal(t, "ESS-", NormalizeTagPrefix("ESS-"))
	assert.Equal(t, "ACME-", NormalizeTagPrefix("  ACME  "))
	assert.Equal(t, DefaultAssetTagPrefix, NormalizeTagPrefix(""))
	assert.Equal(t, DefaultAssetTagPrefix, NormalizeTagPrefix("   "))
}
