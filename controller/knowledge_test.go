package controller

import (
	"strings"
	"testing"
)

func TestRelevantLinksMatchesKeywords(t *testing.T) {
	links := relevantLinks("Can you help with SEO for my shopify store?")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(links), links)
	}
	labels := map[string]bool{}
	for _, l := range links {
		labels[l.Label] = true
	}
	if !labels["Webstore Design"] || !labels["SEO & AIO"] {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestRelevantLinksCapsAtThree(t *testing.T) {
	// Hits gtm, ux, social media, seo and content in table order.
	links := relevantLinks("gtm strategy, ux, social media, seo and content help")
	if len(links) != maxRelevantLinks {
		t.Fatalf("expected %d links, got %d", maxRelevantLinks, len(links))
	}
	if links[0].Label != "GTM Biz Consulting" {
		t.Fatalf("expected table order preserved, got %q first", links[0].Label)
	}
}

func TestRelevantLinksBrandFallback(t *testing.T) {
	links := relevantLinks("what exactly does dotswitch do?")
	if len(links) != 2 {
		t.Fatalf("expected fallback pair, got %+v", links)
	}
	if links[0].Label != "GTM Biz Consulting" || links[1].Label != "CX Web Design" {
		t.Fatalf("unexpected fallback links: %+v", links)
	}
}

func TestRelevantLinksNoMatch(t *testing.T) {
	if links := relevantLinks("what is the weather today"); links != nil {
		t.Fatalf("expected no links, got %+v", links)
	}
	if links := relevantLinks("   "); links != nil {
		t.Fatalf("expected no links for blank message, got %+v", links)
	}
}

func TestGatedLinks(t *testing.T) {
	links := gatedLinks("could I see your portfolio?")
	if len(links) != 1 || links[0].Label != "Dotswitch Portfolio (PDF)" {
		t.Fatalf("unexpected gated links: %+v", links)
	}
	if links := gatedLinks("tell me about pricing"); len(links) != 0 {
		t.Fatalf("expected no gated links, got %+v", links)
	}
}

func TestLooksLikeContactIntent(t *testing.T) {
	cases := map[string]bool{
		"I want to talk to someone about this": true,
		"can you share a quote":                true,
		"Book a call please":                   true,
		"what services do you offer":           false,
		"":                                     false,
	}
	for msg, want := range cases {
		if got := looksLikeContactIntent(msg); got != want {
			t.Errorf("looksLikeContactIntent(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestLeadSuggestionFor(t *testing.T) {
	if got := leadSuggestionFor("show me your portfolio", true); got != gatedLeadSuggestion {
		t.Fatalf("expected gated suggestion, got %q", got)
	}
	// Gated wins even when the message also reads like contact intent.
	if got := leadSuggestionFor("portfolio and a call", true); got != gatedLeadSuggestion {
		t.Fatalf("expected gated suggestion to win, got %q", got)
	}
	if got := leadSuggestionFor("let's schedule a call", false); got != contactLeadSuggestion {
		t.Fatalf("expected contact suggestion, got %q", got)
	}
	if got := leadSuggestionFor("tell me about seo", false); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
}

func TestKnowledgeTablesWellFormed(t *testing.T) {
	for _, entry := range knowledgeLinks {
		if entry.link.Label == "" || !strings.HasPrefix(entry.link.URL, "https://") {
			t.Errorf("malformed link entry: %+v", entry.link)
		}
		if len(entry.keywords) == 0 {
			t.Errorf("link %q has no keywords", entry.link.Label)
		}
		for _, kw := range entry.keywords {
			if kw != strings.ToLower(kw) {
				t.Errorf("keyword %q for %q is not lowercase", kw, entry.link.Label)
			}
		}
	}
	for _, entry := range gatedResources {
		if entry.link.Label == "" || entry.link.URL == "" || len(entry.keywords) == 0 {
			t.Errorf("malformed gated entry: %+v", entry)
		}
	}
}
