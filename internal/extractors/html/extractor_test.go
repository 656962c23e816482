package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func TestExtractor_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, "html", e.Format())
	assert.Contains(t, e.SupportedMIMETypes(), "text/html")
	assert.Contains(t, e.SupportedExtensions(), ".htm")
	assert.Equal(t, 50, e.Priority())
}

func TestExtract_Paragraphs(t *testing.T) {
	raw := &domain.RawDocument{
		Name: "terms.html",
		Content: []byte(`<html><head><title>Terms &amp; Conditions</title><style>p{}</style></head>
<body><p>The Client shall pay &quot;fees&quot; monthly.</p><script>alert(1)</script>
<p class="x">Governing   law is India.<br>Courts of Delhi.</p><!-- note --></body></html>`),
	}

	out, err := New().Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Terms & Conditions", out.Title)
	assert.Equal(t, "The Client shall pay \"fees\" monthly.\n\nGoverning law is India.\nCourts of Delhi.", out.Text)
	assert.NotContains(t, out.Text, "alert")
	assert.NotContains(t, out.Text, "note")
}

func TestExtract_TitleFallback(t *testing.T) {
	out, err := New().Extract(context.Background(), &domain.RawDocument{Name: "/x/lease_deed.html", Content: []byte("<p>hi</p>")})
	require.NoError(t, err)
	assert.Equal(t, "lease deed", out.Title)
	assert.Equal(t, "hi", out.Text)
}

func TestExtract_Nil(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStripHTML_Lists(t *testing.T) {
	got := stripHTML("<ol><li>1. First clause</li><li>2. Second clause</li></ol>")
	assert.Equal(t, "1. First clause\n\n2. Second clause", got)
}
