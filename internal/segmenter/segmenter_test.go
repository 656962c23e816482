package segmenter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func newTestSegmenter() *Segmenter {
	return New(domain.DefaultRuleSet())
}

func TestSegment_NumberedScenario(t *testing.T) {
	s := newTestSegmenter()

	res := s.Segment("1. The Employee shall indemnify the Company without limitation. " +
		"2. This Agreement is governed by the laws of Delhi.")

	require.Len(t, res.Clauses, 2)
	assert.Equal(t, domain.StageNumbered, res.Stage)
	assert.Equal(t, 1, res.Clauses[0].Ordinal)
	assert.Equal(t, "1. The Employee shall indemnify the Company without limitation.", res.Clauses[0].Text)
	assert.Equal(t, 2, res.Clauses[1].Ordinal)
	assert.Equal(t, "2. This Agreement is governed by the laws of Delhi.", res.Clauses[1].Text)
}

func TestSegment_TooShortInput(t *testing.T) {
	s := newTestSegmenter()

	for _, in := range []string{"", "   ", "Hello world         ", "Hello world, short."} {
		res := s.Segment(in)
		assert.Empty(t, res.Clauses, "input %q", in)
		assert.Equal(t, domain.StageNone, res.Stage)
	}
}

func TestSegment_FallbackCompleteness(t *testing.T) {
	s := newTestSegmenter()

	inputs := []string{
		"lorem ipsum dolor sit amet consectetur adipiscing elit sed do",
		"  the vendor delivers goods to the buyer warehouse every monday morning  ",
		strings.Repeat("alpha beta gamma delta ", 12),
	}

	for _, in := range inputs {
		clauses := s.Clauses(in)
		require.Len(t, clauses, 1, "input %q", in)
		assert.Equal(t, strings.TrimSpace(in), clauses[0].Text)
		assert.Equal(t, 1, clauses[0].Ordinal)
	}
}

func TestSegment_OrdinalsFollowDocumentOrder(t *testing.T) {
	s := newTestSegmenter()
	text := `1. The Supplier shall deliver the goods within thirty days of receiving a purchase order.
2. The Buyer shall pay each invoice within forty five days of delivery of the goods.
3. Either party may terminate this Agreement on sixty days written notice to the other party.
4. This Agreement is governed by the laws of India and the courts of Mumbai have jurisdiction.`

	clauses := s.Clauses(text)

	require.Len(t, clauses, 4)
	last := -1
	for i, c := range clauses {
		assert.Equal(t, i+1, c.Ordinal)
		pos := strings.Index(text, c.Text[:20])
		assert.Greater(t, pos, last, "clause %d out of order", c.Ordinal)
		last = pos
		assert.True(t, strings.HasPrefix(c.Text, string(rune('1'+i))+"."))
	}
}

func TestSegment_RomanAndDashDelimiters(t *testing.T) {
	s := newTestSegmenter()
	text := "i) The Licensee receives a non-exclusive licence to use the software on one site. " +
		"ii) The Licensor may audit usage once per year on reasonable written notice. " +
		"iii- Confidential information of either party must not be disclosed to third parties."

	res := s.Segment(text)

	require.Len(t, res.Clauses, 3)
	assert.Equal(t, domain.StageNumbered, res.Stage)
	assert.True(t, strings.HasPrefix(res.Clauses[1].Text, "ii)"))
	assert.True(t, strings.HasPrefix(res.Clauses[2].Text, "iii-"))
}

func TestSegment_DecimalNumbersDoNotSplit(t *testing.T) {
	s := newTestSegmenter()
	text := "The fee is 1.5 percent of turnover and the service level is 99.9 percent per month " +
		"under this agreement between the parties for the full term."

	res := s.Segment(text)

	require.Len(t, res.Clauses, 1)
	assert.Contains(t, res.Clauses[0].Text, "1.5 percent")
}

func TestSegment_SentenceFallback(t *testing.T) {
	s := newTestSegmenter()
	text := "The Contractor shall perform the services described in the statement of work with due care and skill. " +
		"The Client shall provide timely access to its premises, systems and personnel as reasonably required. " +
		"Short note."

	res := s.Segment(text)

	assert.Equal(t, domain.StageSentence, res.Stage)
	require.Len(t, res.Clauses, 2)
	assert.True(t, strings.HasSuffix(res.Clauses[0].Text, "skill."))
}

func TestSegment_ParagraphFallback(t *testing.T) {
	s := newTestSegmenter()
	para := "We met at the old harbour at noon. The sky was clear and blue. " +
		"Gulls circled over the fishing boats. We walked home slowly after lunch."
	text := para + "\r\n\r\n\r\n" + para + " Then it rained."

	res := s.Segment(text)

	assert.Equal(t, domain.StageParagraph, res.Stage)
	require.Len(t, res.Clauses, 2)
	assert.Equal(t, para, res.Clauses[0].Text)
	assert.Equal(t, 2, res.Clauses[1].Ordinal)
}

func TestSegment_HindiDanda(t *testing.T) {
	s := newTestSegmenter()
	text := "ठेकेदार किसी भी नुकसान के लिए असीमित दायित्व स्वीकार करता है। " +
		"कंपनी बिना सूचना के अनुबंध की एकतरफा समाप्ति कर सकती है। " +
		"सभी विवादों का निपटारा दिल्ली के न्यायालय में होगा।"

	res := s.Segment(text)

	require.Len(t, res.Clauses, 3)
	assert.Equal(t, domain.StageNumbered, res.Stage)
	for _, c := range res.Clauses {
		assert.True(t, strings.HasSuffix(c.Text, "।"), c.Text)
	}
}

func TestSegment_StripsMarkup(t *testing.T) {
	s := newTestSegmenter()
	text := "<p>1. The Vendor shall <b>indemnify</b> the Customer against third party claims.</p> " +
		"<p>2. This Agreement is governed by the laws of Karnataka, India.</p><span class="

	clauses := s.Clauses(text)

	require.Len(t, clauses, 2)
	for _, c := range clauses {
		assert.NotContains(t, c.Text, "<")
		assert.NotContains(t, c.Text, ">")
		assert.NotContains(t, c.Text, "  ")
	}
	assert.Equal(t, "1. The Vendor shall indemnify the Customer against third party claims.", clauses[0].Text)
}

func TestSegment_ComparisonSignsAreNotMarkup(t *testing.T) {
	s := newTestSegmenter()

	t.Run("lone less-than", func(t *testing.T) {
		res := s.Segment("1. The Supplier shall deliver goods where the order quantity is < 100 units per month. " +
			"2. The Buyer shall pay all undisputed invoices within thirty days of receipt. " +
			"3. This Agreement is governed by the laws of Delhi.")

		require.Len(t, res.Clauses, 3)
		assert.Equal(t, domain.StageNumbered, res.Stage)
		assert.Equal(t, "1. The Supplier shall deliver goods where the order quantity is < 100 units per month.", res.Clauses[0].Text)
		assert.True(t, strings.HasPrefix(res.Clauses[2].Text, "3. "), res.Clauses[2].Text)
	})

	t.Run("pair across clauses", func(t *testing.T) {
		res := s.Segment("1. A service credit applies when monthly uptime is <99.5 percent for the billing period. " +
			"2. The Customer shall keep all confidential information secret during the term. " +
			"3. A volume discount applies when the Customer orders > 500 licences in any quarter.")

		require.Len(t, res.Clauses, 3)
		assert.Contains(t, res.Clauses[0].Text, "<99.5")
		assert.Equal(t, "2. The Customer shall keep all confidential information secret during the term.", res.Clauses[1].Text)
		assert.Contains(t, res.Clauses[2].Text, "> 500")
	})
}

func TestSegment_DevanagariNumerals(t *testing.T) {
	s := newTestSegmenter()
	text := "१. ठेकेदार किसी भी नुकसान के लिए असीमित दायित्व स्वीकार करता है\n" +
		"२. कंपनी बिना सूचना के अनुबंध की एकतरफा समाप्ति कर सकती है\n" +
		"३. सभी विवादों का निपटारा दिल्ली के न्यायालय में होगा"

	res := s.Segment(text)

	require.Len(t, res.Clauses, 3)
	assert.Equal(t, domain.StageNumbered, res.Stage)
	assert.Equal(t, "१. ठेकेदार किसी भी नुकसान के लिए असीमित दायित्व स्वीकार करता है", res.Clauses[0].Text)
	assert.True(t, strings.HasPrefix(res.Clauses[1].Text, "२. "), res.Clauses[1].Text)
	assert.True(t, strings.HasPrefix(res.Clauses[2].Text, "३. "), res.Clauses[2].Text)
}

func TestSegment_GateDropsShortNonLegalFragments(t *testing.T) {
	s := newTestSegmenter()
	text := "1. Name: Ravi Kumar, Bangalore, Karnataka 560001 India. " +
		"2. The Employee shall not disclose confidential information during the term. " +
		"3. The Employer shall pay a monthly salary as set out in the annexure to this agreement."

	clauses := s.Clauses(text)

	require.Len(t, clauses, 2)
	assert.True(t, strings.HasPrefix(clauses[0].Text, "2."))
	assert.Equal(t, 1, clauses[0].Ordinal)
	assert.Equal(t, 2, clauses[1].Ordinal)
}

func TestSegment_MinimumLengthInvariant(t *testing.T) {
	s := newTestSegmenter()
	text := strings.Repeat("1. The party shall comply. 2. Payment is due on receipt of a valid invoice from the vendor. ", 5)

	for _, c := range s.Clauses(text) {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(c.Text), DefaultMinRunes)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	s := newTestSegmenter()
	text := "1. The Employee shall indemnify the Company without limitation. " +
		"2. This Agreement is governed by the laws of Delhi."

	first := s.Segment(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Segment(text))
	}
	assert.Equal(t, first, New(domain.DefaultRuleSet()).Segment(text))
}

func TestSegment_GarbledInputDegrades(t *testing.T) {
	s := newTestSegmenter()
	text := string([]byte{0xff, 0xfe, 0x00, 0x01}) + strings.Repeat("\x00\x02 ~~ ", 20)

	assert.NotPanics(t, func() { s.Segment(text) })
}

func TestWithStageMinimums(t *testing.T) {
	s := New(domain.DefaultRuleSet(), WithMinRunes(10), WithStageMinimums(5, 6, 7, 8))

	assert.Equal(t, 10, s.minRunes)
	assert.Equal(t, 5, s.numberedMin)
	assert.Equal(t, 6, s.sentenceMin)
	assert.Equal(t, 7, s.paragraphMin)
	assert.Equal(t, 8, s.finalMin)

	s = New(domain.DefaultRuleSet(), WithMinRunes(-1), WithStageMinimums(0, 0, 0, 0))
	assert.Equal(t, DefaultMinRunes, s.minRunes)
	assert.Equal(t, DefaultFinalMin, s.finalMin)
}

func TestName(t *testing.T) {
	assert.Equal(t, "cascade", newTestSegmenter().Name())
}
