package controller

import "strings"

// Link is a label/URL pair surfaced next to a bot reply.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type linkEntry struct {
	link     Link
	keywords []string
}

const apologyReply = "I ran into an issue fetching an answer. Please try again in a moment."

const gatedLeadSuggestion = "I can share our detailed PDF for this. " +
	"Drop your name and email so I can unlock the link for you."

const contactLeadSuggestion = "It sounds like you'd like to talk to the Dotswitch team or discuss a custom plan. " +
	"Share your email and I'll have Sid reach out personally."

const systemPrompt = `You are the AI concierge for Dotswitch CX (dotswitch.space).

Your job:
- Answer questions about Dotswitch CX clearly and briefly.
- Use ONLY the knowledge base below for specific facts (what we do, services, product, pricing).
- If something is not covered, stay high-level and suggest reaching out via email/chat, do NOT invent details.

KNOWLEDGE BASE
---------------

1. What is Dotswitch CX?
- Dotswitch CX is a boutique CX design firm for D2C brands and B2B SaaS.
- We help with:
  - GTM consulting
  - Workflow planning
  - Web and app design
  - Performance marketing
  - Social media growth

2. Core service lines and crucial links:

- GTM Biz Consulting
  URL: https://www.dotswitch.space/gtm-biz-consult
  Description: Helps D2C brand founders find their target audience, plan how to reach them, reduce CAC, improve profit margins, and connect with CXOs and solutions that can help them.

- CX Web Design
  URL: https://www.dotswitch.space/cx-design-for-web
  Description: CX & CX Web Design helps businesses find innovative ways to showcase their products and solutions through UX/UI and overall customer experience on web/app.

- Optimize Social Media
  URL: https://www.dotswitch.space/optimize-social-media
  Description: Social media growth strategy aligned to GTM and target audience.

- Webstore Design
  URL: https://www.dotswitch.space/webstore-design
  Description: Shopify, WordPress, Instapages webstore design to grow ecommerce.

- SEO & AIO
  URL: https://www.dotswitch.space/seo-ai-search
  Description: Boost search discovery on AI LLMs (GPT, Claude, Perplexity) and on Google/Bing via keyword-based content growth on the website.

- Cataloging
  URL: https://www.dotswitch.space/a-content-cataloging
  Description: Marketplace cataloging with discovery-optimised content aligned to platform rules, reducing CAC.

- Content Marketing
  URL: https://www.dotswitch.space/ai-content-generation
  Description: Product and brand marketing content across blogs, videos, website, and social media to drive search and performance-led growth.

- Performance Marketing
  URL: https://www.dotswitch.space/performance-marketing
  Description: Google, Meta, and marketplace ads; CPC and CAC management to improve ROAS so founders can focus on product while Dotswitch focuses on sales outcomes.

- Product Analytics
  URL: https://www.dotswitch.space/product-sense
  Description: Understand the marketing funnel, best-performing growth channels, and conversion behaviour. We help with tools like PostHog and Mixpanel, from cross-channel traffic to conversion attribution.

3. Products:

- Vero
  URL: https://www.dotswitch.space/vero
  Description: In-house tool for personalised, brand-toned SEO content. Generates LinkedIn and website SEO content in bulk without compromising writing style or hitting calendar limits.

4. Pricing:

- Pricing is scope-based.
- We understand the use case and create a custom plan.
- Typical monthly marketing budgets range from Rs 20,000 to Rs 2,00,000.
- There is a free audit + pricing discussion when people reach out.

ANSWERING RULES
----------------
- Keep answers short and focused unless the user asks for deep detail.
- When a question clearly maps to a service, name the service and explain it simply.
- If relevant, mention that detailed pricing is custom and scope-based.
- If the user wants to talk to someone or discuss a plan, encourage sharing their email in the chat.
- If you don't know something from this KB, say so gently and suggest contacting the team.`

var knowledgeLinks = []linkEntry{
	{
		link:     Link{Label: "GTM Biz Consulting", URL: "https://www.dotswitch.space/gtm-biz-consult"},
		keywords: []string{"gtm", "go-to-market", "biz consult", "consulting", "strategy", "market entry"},
	},
	{
		link:     Link{Label: "CX Web Design", URL: "https://www.dotswitch.space/cx-design-for-web"},
		keywords: []string{"cx design", "cx web", "ux", "ui", "website design", "product pages", "landing page"},
	},
	{
		link:     Link{Label: "Optimize Social Media", URL: "https://www.dotswitch.space/optimize-social-media"},
		keywords: []string{"social media", "instagram", "linkedin", "social growth", "social strategy"},
	},
	{
		link:     Link{Label: "Webstore Design", URL: "https://www.dotswitch.space/webstore-design"},
		keywords: []string{"webstore", "shopify", "wordpress", "woocommerce", "instapage", "ecommerce"},
	},
	{
		link:     Link{Label: "SEO & AIO", URL: "https://www.dotswitch.space/seo-ai-search"},
		keywords: []string{"seo", "search", "aio", "ai search", "google", "bing", "perplexity", "gpt"},
	},
	{
		link:     Link{Label: "Cataloging", URL: "https://www.dotswitch.space/a-content-cataloging"},
		keywords: []string{"catalog", "cataloging", "marketplace", "flipkart", "myntra", "ajio", "product listing"},
	},
	{
		link:     Link{Label: "Content Marketing", URL: "https://www.dotswitch.space/ai-content-generation"},
		keywords: []string{"content", "blog", "blogs", "video", "content marketing", "copywriting"},
	},
	{
		link:     Link{Label: "Performance Marketing", URL: "https://www.dotswitch.space/performance-marketing"},
		keywords: []string{"ads", "performance", "google ads", "meta ads", "facebook ads", "roas", "cpc", "cac"},
	},
	{
		link:     Link{Label: "Product Analytics", URL: "https://www.dotswitch.space/product-sense"},
		keywords: []string{"analytics", "product analytics", "posthog", "mixpanel", "funnels", "conversion"},
	},
	{
		link:     Link{Label: "Vero – SEO Content Tool", URL: "https://www.dotswitch.space/vero"},
		keywords: []string{"vero", "seo tool", "ai content", "bulk content"},
	},
}

var gatedResources = []linkEntry{
	{
		link:     Link{Label: "Dotswitch Portfolio (PDF)", URL: "https://drive.google.com/file/d/18gFKXY6_1PDeGRE5ZnHJn4pgNWAe5Emz/view?usp=sharing"},
		keywords: []string{"portfolio", "capabilities deck", "deck", "showreel", "case study deck", "work samples"},
	},
	{
		link:     Link{Label: "AI Fashion Lookbook (PDF)", URL: "https://drive.google.com/file/d/1z_z78EXGHvoh9FOgns-FG7KLR7eyY7ZQ/view?usp=drive_link"},
		keywords: []string{"fashion lookbook", "lookbook", "ai fashion", "fashion brands", "fashion examples"},
	},
}

var contactIntentKeywords = []string{
	"talk to you",
	"talk to someone",
	"reach out",
	"contact you",
	"speak to",
	"schedule a call",
	"book a call",
	"jump on a call",
	"ai fashion",
	"lookbook",
	"rate card",
	"portfolio",
	"contact",
	"pdf",
	"quote",
	"proposal",
	"gtm audit",
	"free audit",
	"marketing audit",
	"scope",
	"custom plan",
}

const maxRelevantLinks = 3

// relevantLinks maps the latest user message to at most three marketing
// links by case-insensitive substring matching, in table order. A message
// that mentions the brand without matching any keyword falls back to two
// core links.
func relevantLinks(userMessage string) []Link {
	if strings.TrimSpace(userMessage) == "" {
		return nil
	}
	text := strings.ToLower(userMessage)
	matches := make([]Link, 0, maxRelevantLinks)
	for _, entry := range knowledgeLinks {
		if containsAny(text, entry.keywords) {
			matches = append(matches, entry.link)
		}
	}
	if len(matches) == 0 && strings.Contains(text, "dotswitch") {
		matches = append(matches,
			Link{Label: "GTM Biz Consulting", URL: "https://www.dotswitch.space/gtm-biz-consult"},
			Link{Label: "CX Web Design", URL: "https://www.dotswitch.space/cx-design-for-web"},
		)
	}
	if len(matches) > maxRelevantLinks {
		matches = matches[:maxRelevantLinks]
	}
	return matches
}

// gatedLinks returns every gated resource whose keyword list matches the
// user message. No cap; the table is small.
func gatedLinks(userMessage string) []Link {
	if strings.TrimSpace(userMessage) == "" {
		return nil
	}
	text := strings.ToLower(userMessage)
	var matches []Link
	for _, entry := range gatedResources {
		if containsAny(text, entry.keywords) {
			matches = append(matches, entry.link)
		}
	}
	return matches
}

// looksLikeContactIntent reports whether the message reads like a request
// to talk to a human, get pricing, or receive collateral.
func looksLikeContactIntent(userMessage string) bool {
	if strings.TrimSpace(userMessage) == "" {
		return false
	}
	return containsAny(strings.ToLower(userMessage), contactIntentKeywords)
}

// leadSuggestionFor picks the lead prompt for a message: the gated variant
// when a gated resource matched, the contact variant on contact intent,
// otherwise nothing.
func leadSuggestionFor(userMessage string, hasGatedLinks bool) string {
	if hasGatedLinks {
		return gatedLeadSuggestion
	}
	if looksLikeContactIntent(userMessage) {
		return contactLeadSuggestion
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
