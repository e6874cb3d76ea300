// Package paywall classifies raw article markup as open or paywalled
// using a layered heuristic chain. Classification is pure: no network, no
// side effects, deterministic for a given input.
package paywall

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tidewatch/internal/domain"
)

// classIndicators are substrings matched against element class
// attributes. First rule in the chain.
var classIndicators = []string{
	"paywall",
	"subscriber-only",
	"restricted-content",
	"premium-content",
	"subscription-required",
}

// textIndicators are phrases matched against the page's visible text.
var textIndicators = []string{
	"sign in to continue",
	"subscribe to read",
	"subscription required",
	"become a subscriber",
	"log in to view",
}

// truncationIndicators are continuation prompts that, combined with a
// short article body, imply the content was cut at the paywall.
var truncationIndicators = []string{
	"continue reading",
	"read more",
	"view full article",
	"full story available to subscribers",
}

// ctaIndicators are matched against button/link text for the
// call-to-action rule.
var ctaIndicators = []string{
	"sign in",
	"log in",
	"subscribe",
	"become a member",
}

// truncatedBodyMax is the body length below which a continuation prompt
// counts as truncation.
const truncatedBodyMax = 500

// Classify runs the heuristic chain over rawHTML. Rules are ordered;
// the first one that fires wins and names itself in the verdict reason.
// Unparseable input classifies as open.
func Classify(rawHTML string) domain.PaywallVerdict {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return domain.PaywallVerdict{}
	}

	if reason, ok := matchClass(doc); ok {
		return domain.PaywallVerdict{Paywalled: true, Reason: reason}
	}

	pageText := strings.ToLower(doc.Text())

	if reason, ok := matchText(pageText); ok {
		return domain.PaywallVerdict{Paywalled: true, Reason: reason}
	}
	if reason, ok := matchTruncation(doc, pageText); ok {
		return domain.PaywallVerdict{Paywalled: true, Reason: reason}
	}
	if reason, ok := matchCTA(doc); ok {
		return domain.PaywallVerdict{Paywalled: true, Reason: reason}
	}

	return domain.PaywallVerdict{}
}

// matchClass fires when any element's class attribute contains a paywall
// indicator substring.
func matchClass(doc *goquery.Document) (string, bool) {
	var reason string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, indicator := range classIndicators {
			if strings.Contains(class, indicator) {
				reason = "Found paywall class: " + indicator
				return false
			}
		}
		return true
	})
	return reason, reason != ""
}

func matchText(pageText string) (string, bool) {
	for _, indicator := range textIndicators {
		if strings.Contains(pageText, indicator) {
			return "Found paywall text: " + indicator, true
		}
	}
	return "", false
}

// matchTruncation fires when a continuation prompt appears and the
// article-like container's text is suspiciously short.
func matchTruncation(doc *goquery.Document, pageText string) (string, bool) {
	for _, indicator := range truncationIndicators {
		if !strings.Contains(pageText, indicator) {
			continue
		}
		body := doc.Find("article").First()
		if body.Length() == 0 {
			body = doc.Find("[class*='article']").First()
		}
		if body.Length() == 0 {
			continue
		}
		if len(strings.TrimSpace(body.Text())) < truncatedBodyMax {
			return "Truncated content detected: " + indicator, true
		}
	}
	return "", false
}

// matchCTA fires on a sign-in/subscribe button or link placed inside a
// content container that is not itself a header.
func matchCTA(doc *goquery.Document) (string, bool) {
	fired := false
	doc.Find("button, a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(s.Text())
		matched := false
		for _, indicator := range ctaIndicators {
			if strings.Contains(text, indicator) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		parent := s.ParentsFiltered("main, article, div").First()
		if parent.Length() == 0 {
			return true
		}
		class, _ := parent.Attr("class")
		if strings.Contains(strings.ToLower(class), "header") {
			return true
		}

		fired = true
		return false
	})
	if fired {
		return "Sign in/Subscribe button found in content area", true
	}
	return "", false
}
