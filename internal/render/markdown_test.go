package render

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHeading(t *testing.T) {
	conv := NewConverter()

	html, err := conv.Convert(context.Background(), "# Hi")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 id="hi">Hi</h1>`)
}

func TestConvertIsPure(t *testing.T) {
	conv := NewConverter()
	input := "# Title\n\nSome *emphasis* and a [link](https://example.com).\n"

	first, err := conv.Convert(context.Background(), input)
	require.NoError(t, err)
	second, err := conv.Convert(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must yield identical output")
}

func TestConvertGFMTable(t *testing.T) {
	conv := NewConverter()
	input := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	html, err := conv.Convert(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>1</td>")
}

func TestConvertFencedCodeUsesClasses(t *testing.T) {
	conv := NewConverter()
	input := "```go\npackage main\n```\n"

	html, err := conv.Convert(context.Background(), input)
	require.NoError(t, err)
	// Highlighting emits CSS classes, not inline styles
	assert.Contains(t, html, "class=")
	assert.NotContains(t, html, "style=\"color")
}

func TestConvertConcurrent(t *testing.T) {
	conv := NewConverter()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := conv.Convert(context.Background(), "# Hi")
			assert.NoError(t, err)
			assert.Contains(t, html, "<h1")
		}()
	}
	wg.Wait()
}

func TestConvertCancelledContext(t *testing.T) {
	conv := NewConverter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, "# Hi")
	assert.ErrorIs(t, err, context.Canceled)
}
