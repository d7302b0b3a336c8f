package sdkscout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetIndex = `{
  "package": "widgets",
  "packages": [
    {
      "name": "widgets",
      "structs": [
        {
          "name": "Client",
          "entryPoint": true,
          "fields": [{"name": "widgets", "type": "*WidgetService"}],
          "methods": [
            {"name": "Widgets", "sig": "()", "ret": "*WidgetService"}
          ]
        },
        {
          "name": "WidgetService",
          "methods": [
            {"name": "List", "sig": "(ctx context.Context)", "ret": "PagedList[Widget]"},
            {"name": "Get", "sig": "(ctx context.Context, id string)", "ret": "*Widget"}
          ]
        },
        {
          "name": "Widget",
          "fields": [{"name": "ID", "type": "string"}]
        },
        {
          "name": "PagedList[T]",
          "methods": [{"name": "NextPage", "sig": "()", "ret": "bool"}]
        }
      ],
      "interfaces": [
        {
          "name": "Lister",
          "methods": [
            {"name": "List", "sig": "(ctx context.Context)", "ret": "PagedList[Widget]"}
          ]
        }
      ]
    }
  ]
}`

func TestLoadAPIIndex(t *testing.T) {
	graph, err := LoadAPIIndex([]byte(widgetIndex))
	require.NoError(t, err)
	require.Len(t, graph.Types, 5)

	byName := make(map[string]TypeNode)
	for _, node := range graph.Types {
		byName[node.Name] = node
	}

	client := byName["Client"]
	assert.True(t, client.EntryPoint)
	assert.True(t, client.Concrete)
	assert.Equal(t, KindClass, client.Kind)
	assert.Equal(t, []string{"Widgets"}, client.Operations)
	assert.ElementsMatch(t, []string{"WidgetService"}, client.References)

	// Generic arguments are stripped from type names and references.
	svc := byName["WidgetService"]
	assert.ElementsMatch(t, []string{"Widget", "PagedList"}, svc.References)
	_, ok := byName["PagedList"]
	assert.True(t, ok)

	lister := byName["Lister"]
	assert.Equal(t, KindInterface, lister.Kind)
	assert.False(t, lister.Concrete)
}

func TestLoadAPIIndexImplementers(t *testing.T) {
	graph, err := LoadAPIIndex([]byte(widgetIndex))
	require.NoError(t, err)

	// WidgetService declares List, so it satisfies Lister by method-set
	// inclusion. Client does not.
	assert.Equal(t, []string{"WidgetService"}, graph.Implementers["Lister"])
}

func TestLoadAPIIndexRejectsMalformedJSON(t *testing.T) {
	_, err := LoadAPIIndex([]byte(`{"packages": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode api index")
}

func TestLoadAPIIndexSelfReferenceDropped(t *testing.T) {
	graph, err := LoadAPIIndex([]byte(`{
	  "packages": [{"name": "p", "structs": [
	    {"name": "Node", "fields": [{"name": "next", "type": "*Node"}]}
	  ]}]
	}`))
	require.NoError(t, err)
	require.Len(t, graph.Types, 1)
	assert.Empty(t, graph.Types[0].References)
}
