package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML_TagsEntitiesAndWhitespace(t *testing.T) {
	input := "<p> Hello&nbsp;&nbsp;<b>World</b> </p>"
	assert.Equal(t, "Hello World", CleanHTML(input))
}

func TestCleanHTML_CollapsesNewlinesAndTabs(t *testing.T) {
	input := "<div>Line one\r\n\t Line two\n\n\nLine   three</div>"
	assert.Equal(t, "Line one Line two Line three", CleanHTML(input))
}

func TestCleanHTML_DecodesEntities(t *testing.T) {
	input := "<span>Fish &amp; Chips &lt;hot&gt;</span>"
	assert.Equal(t, "Fish & Chips <hot>", CleanHTML(input))
}

func TestCleanHTML_DropsScriptAndStyleContent(t *testing.T) {
	input := `<p>Visible</p><script>alert("nope")</script><style>p{color:red}</style><p>Also visible</p>`
	assert.Equal(t, "Visible Also visible", CleanHTML(input))
}

func TestCleanHTML_EmptyAndWhitespaceOnly(t *testing.T) {
	assert.Equal(t, "", CleanHTML(""))
	assert.Equal(t, "", CleanHTML("   \r\n\t  "))
	assert.Equal(t, "", CleanHTML("<p>&nbsp;</p>"))
}

func TestCleanHTML_PlainTextPassesThrough(t *testing.T) {
	assert.Equal(t, "No markup here", CleanHTML("No markup here"))
}

func TestCleanHTML_MalformedMarkupTolerated(t *testing.T) {
	input := "<p>Unclosed <b>bold <i>and nested"
	assert.Equal(t, "Unclosed bold and nested", CleanHTML(input))
}

func TestCleanHTML_TruncatesToMaxLen(t *testing.T) {
	input := "<p>" + strings.Repeat("a", MaxDescriptionLen+500) + "</p>"
	cleaned := CleanHTML(input)
	assert.Len(t, []rune(cleaned), MaxDescriptionLen)
}

func TestCleanHTML_TruncatesOnRuneBoundary(t *testing.T) {
	// Multi-byte runes must not be split mid-sequence.
	input := strings.Repeat("й", MaxDescriptionLen+10)
	cleaned := CleanHTML(input)
	assert.Len(t, []rune(cleaned), MaxDescriptionLen)
	assert.Equal(t, strings.Repeat("й", MaxDescriptionLen), cleaned)
}
