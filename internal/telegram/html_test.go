package telegram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bazaar/internal/telegram"
)

func TestConvertHTMLKeepsAllowedTags(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"bold", "<p>Hello <strong>world</strong></p>", "Hello <b>world</b>\n"},
		{"italic", "<p><em>soft</em></p>", "<i>soft</i>\n"},
		{"underline", "<p><ins>note</ins></p>", "<u>note</u>\n"},
		{"strike", "<p><del>old</del></p>", "<s>old</s>\n"},
		{"code", "<p>ref <code>o-123</code></p>", "ref <code>o-123</code>\n"},
		{"pre", "<pre>x = 1</pre>", "<pre>x = 1</pre>"},
		{"link", `<p><a href="https://x.test/a?b=1">shop</a></p>`,
			"<a href=\"https://x.test/a?b=1\">shop</a>\n"},
		{"anchor without href unwraps", "<p><a>plain</a></p>", "plain\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, telegram.ConvertHTML(tc.in))
		})
	}
}

func TestConvertHTMLFlattensBlocks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"heading becomes bold line", "<h2>Order confirmed</h2>", "<b>Order confirmed</b>\n"},
		{"nested markup in heading", "<h1>Big <em>day</em></h1>", "<b>Big <i>day</i></b>\n"},
		{"list items get bullets", "<ul><li>first</li><li>second</li></ul>",
			"• first\n• second\n"},
		{"line break", "<p>a<br>b</p>", "a\nb\n"},
		{"blockquote prefixes lines", "<blockquote>one<br>two</blockquote>",
			"> one\n> two\n"},
		{"unsupported span unwraps", `<p><span style="color:red">warn</span></p>`, "warn\n"},
		{"div behaves like paragraph", "<div>block</div>", "block\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, telegram.ConvertHTML(tc.in))
		})
	}
}

func TestConvertHTMLEscapesText(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt; c\n", telegram.ConvertHTML("<p>a & b < c</p>"))
	assert.Equal(t, "<a href=\"https://x.test/?a=1&amp;b=2\">x</a>\n",
		telegram.ConvertHTML(`<p><a href="https://x.test/?a=1&b=2">x</a></p>`))
}

func TestConvertHTMLCollapsesBlankRuns(t *testing.T) {
	got := telegram.ConvertHTML("<p>a</p><p></p><p></p><p>b</p>")
	assert.Equal(t, "a\n\nb\n", got)

	// A single empty paragraph is an intentional blank line and survives.
	assert.Equal(t, "a\n\nb\n", telegram.ConvertHTML("<p>a</p><p></p><p>b</p>"))
}

func TestConvertHTMLBlankInput(t *testing.T) {
	assert.Equal(t, "", telegram.ConvertHTML(""))
	assert.Equal(t, "", telegram.ConvertHTML("<p> </p>"))
	assert.Equal(t, "", telegram.ConvertHTML("<div><br></div>"))
}
