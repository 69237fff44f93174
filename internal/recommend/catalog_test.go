package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aihub/toolhub-go/internal/models"
)

func TestCatalogByInputType(t *testing.T) {
	catalog := NewCatalog([]models.Tool{
		{Slug: "ip-lookup", Name: "IP Lookup", InputTypes: models.StringArray{"ipv4", "ipv6"}},
		{Slug: "subnet-calc", Name: "Subnet Calculator", InputTypes: models.StringArray{"ipv4", "cidr_list"}},
		{Slug: "json-beautifier", Name: "JSON Beautifier", InputTypes: models.StringArray{"json"}},
	})

	assert.Equal(t, 3, catalog.Size())

	ipTools := catalog.ToolsForInputType("ipv4")
	require.Len(t, ipTools, 2)
	// 目录顺序
	assert.Equal(t, "ip-lookup", ipTools[0].Slug)
	assert.Equal(t, "subnet-calc", ipTools[1].Slug)

	assert.Empty(t, catalog.ToolsForInputType("uuid"))

	tool, ok := catalog.GetBySlug("json-beautifier")
	require.True(t, ok)
	assert.Equal(t, "JSON Beautifier", tool.Name)

	_, ok = catalog.GetBySlug("missing")
	assert.False(t, ok)
}

func TestCatalogEmpty(t *testing.T) {
	catalog := NewCatalog(nil)
	assert.Equal(t, 0, catalog.Size())
	assert.Empty(t, catalog.Tools())
	assert.Empty(t, catalog.ToolsForInputType("ipv4"))
}
