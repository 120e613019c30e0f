package tools

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("city", openapi3.NewStringSchema()).
		WithProperty("days", openapi3.NewIntegerSchema())
	schema.Required = []string{"city"}
	return schema
}

func TestRegistry_Execute(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:        "get_weather",
		Description: "Look up the current weather for a city.",
		Parameters:  weatherSchema(),
		Fn: func(ctx context.Context, args map[string]any) (any, error) {
			return "sunny in " + args["city"].(string), nil
		},
	})

	out, err := reg.Execute(context.Background(), "get_weather", map[string]any{"city": "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "sunny in Lisbon", out)
}

func TestRegistry_Execute_SchemaRejectsBadArgs(t *testing.T) {
	reg := NewRegistry()
	called := false
	reg.Register(Tool{
		Name:       "get_weather",
		Parameters: weatherSchema(),
		Fn: func(ctx context.Context, args map[string]any) (any, error) {
			called = true
			return nil, nil
		},
	})

	// Missing required "city".
	_, err := reg.Execute(context.Background(), "get_weather", map[string]any{"days": 3})
	require.Error(t, err)
	assert.False(t, called, "implementation must not run on invalid arguments")

	// Wrong type for "city".
	_, err = reg.Execute(context.Background(), "get_weather", map[string]any{"city": 42})
	require.Error(t, err)
	assert.False(t, called)
}

func TestRegistry_Execute_NotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool not found")
}

func TestRegistry_Specs(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{Name: "b", Description: "second"})
	reg.Register(Tool{Name: "a", Description: "first", Parameters: weatherSchema()})

	specs, err := reg.Specs()
	require.NoError(t, err)
	require.Len(t, specs, 2)

	// Registration order, not alphabetical.
	assert.Equal(t, "b", specs[0].Name)
	assert.Equal(t, "a", specs[1].Name)

	props, ok := specs[1].Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "city")
}
