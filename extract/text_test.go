package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpmatch/terpmatch/llm/llmtest"
	"github.com/terpmatch/terpmatch/model"
)

func menuCard(name, price, extra string) string {
	return fmt.Sprintf(`<div class="product-card">
		<h3 class="product-name">%s</h3>
		<span class="product-price">%s</span>
		<p>%s</p>
	</div>`, name, price, extra)
}

func TestScanProductCards(t *testing.T) {
	html := `<html><body>` +
		menuCard("Blue Dream", "$35.00", "Hybrid, 21% THC") +
		menuCard("Sour Diesel", "$30.00", "Sativa, 24% THC") +
		menuCard("Blue Dream", "$35.00", "duplicate card") +
		`</body></html>`

	cards := ScanProductCards(html)
	require.Len(t, cards, 2, "duplicates collapse by name")

	assert.Equal(t, "Blue Dream", cards[0].Name)
	assert.Equal(t, "$35.00", cards[0].Price)
	assert.Equal(t, "hybrid", cards[0].Category)
	assert.Contains(t, cards[0].Details, "21% THC")
}

func TestScanProductCardsNoCards(t *testing.T) {
	assert.Empty(t, ScanProductCards("<html><body><p>hello</p></body></html>"))
}

func TestCleanMenuHTMLStripsChrome(t *testing.T) {
	html := `<html><head><script>var x=1;</script><style>.a{}</style></head>
	<body><nav>Home About</nav>
	<div class="menu">Blue Dream $35</div>
	<footer>Copyright</footer></body></html>`

	text := CleanMenuHTML(html)
	assert.Contains(t, text, "Blue Dream $35")
	assert.NotContains(t, text, "var x=1")
	assert.NotContains(t, text, "Home About")
	assert.NotContains(t, text, "Copyright")
}

func TestTextExtractSkipsCategorizationWhenScanSuffices(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 6; i++ {
		b.WriteString(menuCard(fmt.Sprintf("Strain %c", 'A'+i), "$30.00", "Hybrid 20% THC"))
	}
	b.WriteString("</body></html>")

	provider := llmtest.New().Queue(`[
		{"name":"Strain A","type":"HYBRID","thcMin":18.0,"thcMax":22.0,"price":30.0,"description":"nice"},
		{"name":"Strain B","type":"HYBRID","thcMin":null,"thcMax":null,"price":null,"description":""}
	]`)

	p := NewTextPipeline(provider)
	strains, err := p.Extract(context.Background(), b.String())
	require.NoError(t, err)

	require.Len(t, provider.Calls, 1, "only the detail pass runs")
	require.Len(t, strains, 2)
	assert.Equal(t, "Strain A", strains[0].Name)
	assert.Equal(t, 22.0, strains[0].THCPercent, "thcMax preferred")
	assert.Equal(t, 30.0, strains[0].Price)
}

func TestTextExtractCategorizeThenDetail(t *testing.T) {
	html := "<html><body><div id='root'>menu text without product cards</div></body></html>"

	provider := llmtest.New().
		Queue(`{"Buds":[{"name":"Granddaddy Purple","price":"$40"}],"Edibles":[{"name":"Gummy"}]}`).
		Queue(`[{"name":"Granddaddy Purple","type":"INDICA","thcMin":17.0,"thcMax":24.0,"price":40.0,"description":"classic"}]`)

	p := NewTextPipeline(provider)
	strains, err := p.Extract(context.Background(), html)
	require.NoError(t, err)

	require.Len(t, provider.Calls, 2)
	require.Len(t, strains, 1)
	assert.Equal(t, "Granddaddy Purple", strains[0].Name)
	assert.Equal(t, model.TypeIndica, strains[0].Type)
	assert.Equal(t, 24.0, strains[0].THCPercent)
}

func TestTextExtractNoFlowersFound(t *testing.T) {
	provider := llmtest.New().Queue(`{"Edibles":[{"name":"Gummy"}],"Vapes":[{"name":"Cart"}]}`)

	p := NewTextPipeline(provider)
	_, err := p.Extract(context.Background(), "<html><body>menu</body></html>")
	require.Error(t, err)

	var noFlowers *model.NoFlowersFound
	require.ErrorAs(t, err, &noFlowers)
	assert.ElementsMatch(t, []string{"Edibles", "Vapes"}, noFlowers.Categories)
}

func TestTextExtractEmptyCategoriesIsNoFlowers(t *testing.T) {
	// the hallucination guard: a JS shell with no product data yields {}
	provider := llmtest.New().Queue(`{}`)

	p := NewTextPipeline(provider)
	_, err := p.Extract(context.Background(), "<html><body><div id='app'></div></body></html>")

	var noFlowers *model.NoFlowersFound
	require.ErrorAs(t, err, &noFlowers)
	assert.Empty(t, noFlowers.Categories)
}

func TestTextExtractCategorizationNetworkError(t *testing.T) {
	provider := llmtest.New().QueueError(errors.New("dns failure"))

	p := NewTextPipeline(provider)
	_, err := p.Extract(context.Background(), "<html><body>menu</body></html>")

	var netErr *model.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestTextExtractInvalidCategorizationJSON(t *testing.T) {
	provider := llmtest.New().Queue("I could not find any products, sorry!")

	p := NewTextPipeline(provider)
	_, err := p.Extract(context.Background(), "<html><body>menu</body></html>")

	var llmErr *model.LlmError
	assert.ErrorAs(t, err, &llmErr)
}

func TestTextExtractDetailFallbackToCandidates(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 5; i++ {
		b.WriteString(menuCard(fmt.Sprintf("Strain %c", 'A'+i), "$25.00", "Indica 18% THC"))
	}
	b.WriteString("</body></html>")

	provider := llmtest.New().Queue("no json at all")

	p := NewTextPipeline(provider)
	strains, err := p.Extract(context.Background(), b.String())
	require.NoError(t, err)

	require.Len(t, strains, 5)
	assert.Equal(t, "Strain A", strains[0].Name)
	assert.Equal(t, model.TypeIndica, strains[0].Type)
	assert.Equal(t, 18.0, strains[0].THCPercent)
	assert.Equal(t, 25.0, strains[0].Price)
}
