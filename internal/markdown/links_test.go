package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func extractLinks(t *testing.T, body []byte) []Link {
	t.Helper()
	res, err := NewConverter(Options{}).Convert(body)
	require.NoError(t, err)
	return res.Links
}

func TestConvertLinks_InlineLink(t *testing.T) {
	links := extractLinks(t, []byte("See [API](api.md) for details."))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
}

func TestConvertLinks_ImageLink(t *testing.T) {
	links := extractLinks(t, []byte("![Diagram](diagram.png)"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestConvertLinks_AutoLink(t *testing.T) {
	links := extractLinks(t, []byte("<https://example.com/path>"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestConvertLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := extractLinks(t, []byte("See [API][ref].\n\n[ref]: api.md\n"))
	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
}

func TestConvertLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links := extractLinks(t, src)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func TestConvert_HeadingsCarryIDs(t *testing.T) {
	c := NewConverter(Options{})
	res, err := c.Convert([]byte("# Intro\n\ntext\n\n## Deep *dive*\n"))
	require.NoError(t, err)

	require.Equal(t, []Heading{
		{Level: 1, Text: "Intro", ID: "intro"},
		{Level: 2, Text: "Deep dive", ID: "deep-dive"},
	}, res.Headings)
	require.Contains(t, string(res.HTML), `<h2 id="deep-dive">`)
}

func TestConvert_GFMTable(t *testing.T) {
	res, err := NewConverter(Options{}).Convert([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, string(res.HTML), "<table>")
}

func TestConvert_SanitizeStripsScripts(t *testing.T) {
	src := []byte("# Title\n\n<script>alert(1)</script>\n\nok\n")

	raw, err := NewConverter(Options{}).Convert(src)
	require.NoError(t, err)
	require.Contains(t, string(raw.HTML), "<script>")

	clean, err := NewConverter(Options{Sanitize: true}).Convert(src)
	require.NoError(t, err)
	require.NotContains(t, string(clean.HTML), "<script>")
	require.Contains(t, string(clean.HTML), `id="title"`)
}

func TestConvert_Wikilinks(t *testing.T) {
	res, err := NewConverter(Options{Wikilinks: true}).Convert([]byte("See [[Other Note|the other]] and [[go#Error Handling]].\n"))
	require.NoError(t, err)
	require.Len(t, res.Links, 2)
	require.Equal(t, "Other Note", res.Links[0].Destination)
	require.Equal(t, "go#error-handling", res.Links[1].Destination)
	require.Contains(t, string(res.HTML), ">the other</a>")
}
