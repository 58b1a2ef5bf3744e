// Package assembler builds the HTML body, title, meta description and labels
// for one post from fixed templates, the topic, catalog products and stock
// images. Template choice goes through an injected rand source so tests can
// pin a variant.
package assembler

import (
	"fmt"
	"html"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/serisow/glowpress/affiliate"
	"github.com/serisow/glowpress/pipeline_type"
)

const (
	titleBudget   = 60
	metaMin       = 150
	metaMax       = 160
	maxLabels     = 8
	maxProducts   = 3
	maxImages     = 4
)

var whitespacePattern = regexp.MustCompile(`\s+`)

var introVariants = []string{
	"If %s has been all over your feed lately, you are not imagining it. Here is everything worth knowing before you spend a cent.",
	"There is a reason everyone keeps talking about %s. This guide breaks it down into steps you can actually follow tonight.",
	"%s does not have to be complicated. We tested the routines, read the ingredient lists, and kept only what works.",
}

var closingVariants = []string{
	"That is the whole story on %s. Start small, stay consistent, and let your skin tell you what works.",
	"Ready to try %s for yourself? Pick one step from this guide and build from there.",
	"%s rewards patience. Give any new product two to four weeks before judging the results.",
}

var titleVariants = []string{
	"%s: The Complete %d Guide",
	"How to Master %s in %d",
	"%s Tips That Actually Work",
	"The Honest Guide to %s",
}

var shortTitleVariants = []string{
	"%s Guide",
	"%s, Explained",
	"All About %s",
}

var metaVariants = []string{
	"Discover %s with our step-by-step guide, honest product picks, and dermatologist-approved tips for visible results without the guesswork or the wasted money.",
	"Everything you need to know about %s: a realistic routine, the mistakes to skip, and three affordable products our editors actually repurchase every month.",
	"Master %s at home with this practical guide covering the routine order, common mistakes, frequently asked questions, and budget-friendly product picks.",
}

var baseLabels = []string{"beauty", "skincare tips"}

// conditionalLabels adds platform labels keyed by substring matches on the
// topic or category.
var conditionalLabels = []struct {
	substr string
	label  string
}{
	{"skincare", "skincare routine"},
	{"skin", "healthy skin"},
	{"makeup", "makeup tutorial"},
	{"hair", "hair care"},
	{"glow", "glowing skin"},
	{"glass", "glowing skin"},
	{"nail", "nail art"},
	{"spf", "sun protection"},
	{"sunscreen", "sun protection"},
}

type Assembler struct {
	rng          *rand.Rand
	affiliateTag string
	now          func() time.Time
}

func New(rng *rand.Rand, affiliateTag string) *Assembler {
	return &Assembler{
		rng:          rng,
		affiliateTag: affiliateTag,
		now:          time.Now,
	}
}

// WithNow overrides the clock, used by tests to pin the year in titles.
func (a *Assembler) WithNow(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble produces the full HTML body. Fixed block order: intro, hero image,
// "what is" with the first product link, step guide (only with at least two
// images) with the second, mistakes with the third, tips/FAQ, closing. The
// draft, when present, replaces the templated "what is" body. Every
// marketplace URL in the result carries the affiliate tag.
func (a *Assembler) Assemble(topic string, products []pipeline_type.Product, images []pipeline_type.Image, draft string) string {
	if len(products) > maxProducts {
		products = products[:maxProducts]
	}
	if len(images) > maxImages {
		images = images[:maxImages]
	}

	safeTopic := html.EscapeString(topic)
	var b strings.Builder

	nextProduct := productCursor(products)

	fmt.Fprintf(&b, "<p>%s</p>\n", fmt.Sprintf(a.pick(introVariants), safeTopic))

	if len(images) > 0 {
		writeImageBlock(&b, images[0], "hero")
	}

	fmt.Fprintf(&b, "<h2>What Is %s?</h2>\n", titleCase(safeTopic))
	if strings.TrimSpace(draft) != "" {
		b.WriteString(draft)
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "<p>At its core, %s is about working with your skin instead of against it: gentle cleansing, targeted treatment, and daily protection.</p>\n", safeTopic)
	}
	writeProductLink(&b, nextProduct())

	if len(images) >= 2 {
		fmt.Fprintf(&b, "<h2>Step-by-Step %s Guide</h2>\n", titleCase(safeTopic))
		steps := []string{
			"Start with a clean base. Massage your cleanser for a full sixty seconds before rinsing lukewarm.",
			"Apply your treatment while skin is still slightly damp so actives absorb evenly.",
			"Seal everything in with moisturizer, and never skip sunscreen in the morning.",
		}
		for i, img := range images[1:] {
			fmt.Fprintf(&b, "<h3>Step %d</h3>\n", i+1)
			writeImageBlock(&b, img, "step")
			if i < len(steps) {
				fmt.Fprintf(&b, "<p>%s</p>\n", steps[i])
			}
		}
		writeProductLink(&b, nextProduct())
	}

	fmt.Fprintf(&b, "<h2>Mistakes to Avoid with %s</h2>\n", titleCase(safeTopic))
	b.WriteString("<ul>\n")
	b.WriteString("<li>Introducing every new product at once instead of one at a time.</li>\n")
	b.WriteString("<li>Over-exfoliating; two to three times a week is plenty for most skin.</li>\n")
	b.WriteString("<li>Skipping sunscreen on cloudy days.</li>\n")
	b.WriteString("</ul>\n")
	writeProductLink(&b, nextProduct())

	fmt.Fprintf(&b, "<h2>%s FAQ</h2>\n", titleCase(safeTopic))
	fmt.Fprintf(&b, "<h3>How long until I see results from %s?</h3>\n<p>Most people notice a difference within two to four weeks of consistent use.</p>\n", safeTopic)
	fmt.Fprintf(&b, "<h3>Is %s suitable for sensitive skin?</h3>\n<p>Usually, yes, as long as you patch test new products and introduce them gradually.</p>\n", safeTopic)

	fmt.Fprintf(&b, "<p>%s</p>\n", fmt.Sprintf(a.pick(closingVariants), titleCase(safeTopic)))

	return affiliate.Tag(b.String(), a.affiliateTag)
}

// Title returns a post title of at most 60 characters. Over-budget picks are
// re-selected from the shorter template set; the final safety trim cuts at a
// word boundary and appends an ellipsis, never a silent mid-word cut.
func (a *Assembler) Title(topic string) string {
	year := a.now().Year()
	t := titleCase(topic)

	title := a.fillTitle(a.pick(titleVariants), t, year)
	if len([]rune(title)) > titleBudget {
		title = a.fillTitle(a.pick(shortTitleVariants), t, year)
	}
	return trimTitle(title, titleBudget)
}

func (a *Assembler) fillTitle(tmpl, topic string, year int) string {
	if strings.Contains(tmpl, "%d") {
		return fmt.Sprintf(tmpl, topic, year)
	}
	return fmt.Sprintf(tmpl, topic)
}

// MetaDescription returns a search description clamped to [150,160]
// characters. Under-length output is padded with a filler sentence.
// TODO: drop the padding branch once the SEO owner confirms whether the
// 150-character floor is a real platform requirement.
func (a *Assembler) MetaDescription(topic string) string {
	desc := collapseWhitespace(fmt.Sprintf(a.pick(metaVariants), topic))

	filler := " Updated with fresh product picks and tips for this season."
	for len([]rune(desc)) < metaMin {
		desc += filler
	}

	runes := []rune(desc)
	if len(runes) > metaMax {
		desc = strings.TrimRight(string(runes[:metaMax-1]), " ") + "…"
	}
	return desc
}

// Labels returns at most 8 deduplicated labels: the base set, topic words
// longer than two characters, then substring-conditional labels.
func (a *Assembler) Labels(topic, category string) []string {
	lower := strings.ToLower(topic)
	haystack := lower + " " + strings.ToLower(category)

	var labels []string
	labels = append(labels, baseLabels...)

	for _, word := range strings.Fields(lower) {
		if len(word) > 2 {
			labels = append(labels, word)
		}
	}

	for _, c := range conditionalLabels {
		if strings.Contains(haystack, c.substr) {
			labels = append(labels, c.label)
		}
	}

	seen := make(map[string]bool)
	deduped := labels[:0]
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		deduped = append(deduped, l)
		if len(deduped) == maxLabels {
			break
		}
	}
	return deduped
}

func (a *Assembler) pick(variants []string) string {
	return variants[a.rng.Intn(len(variants))]
}

// productCursor hands out products in order, nil once exhausted, so each block
// consumes at most one product link.
func productCursor(products []pipeline_type.Product) func() *pipeline_type.Product {
	i := 0
	return func() *pipeline_type.Product {
		if i >= len(products) {
			return nil
		}
		p := products[i]
		i++
		return &p
	}
}

func writeProductLink(b *strings.Builder, p *pipeline_type.Product) {
	if p == nil {
		return
	}
	fmt.Fprintf(b, "<p>Product pick: <a href=\"%s\" rel=\"nofollow\">%s</a> (%s)</p>\n",
		p.URL(), html.EscapeString(p.Name), html.EscapeString(p.Price))
}

func writeImageBlock(b *strings.Builder, img pipeline_type.Image, class string) {
	fmt.Fprintf(b, "<div class=\"%s\"><img src=\"%s\" alt=\"%s\"/>", class, img.URL, html.EscapeString(img.Alt))
	if img.Photographer != "" {
		fmt.Fprintf(b, "<p class=\"credit\">Photo by %s on Pexels</p>", html.EscapeString(img.Photographer))
	}
	b.WriteString("</div>\n")
}

func trimTitle(s string, budget int) string {
	s = collapseWhitespace(s)
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	cut := string(runes[:budget-1])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "…"
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
