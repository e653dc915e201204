package session

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
)

// ExtractDomain returns the lowercased host of rawURL with any leading
// "www." removed. Scheme-less inputs fall back to the path component, so
// "example.com/page" still yields a usable domain. Unparseable input maps
// to "unknown" and an empty URL maps to "".
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	domain := u.Host
	if domain == "" {
		domain = u.Path
	}
	domain = strings.ToLower(domain)
	return strings.TrimPrefix(domain, "www.")
}

// ServiceName derives a display name from a URL: the registrable label of
// the host ("mail.google.com" -> "Google"), capitalized. Inputs without a
// usable host yield "Unknown".
func ServiceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Unknown"
	}
	domain := u.Host
	if domain == "" {
		domain = u.Path
	}
	if len(domain) >= 4 && strings.EqualFold(domain[:4], "www.") {
		domain = domain[4:]
	}
	parts := strings.Split(domain, ".")
	main := parts[0]
	if len(parts) > 2 {
		main = parts[len(parts)-2]
	}
	if main == "" {
		return "Unknown"
	}
	return capitalize(main)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

type URLTime struct {
	URL     string
	TimeSec int
}

type DomainBucket struct {
	Domain  string
	TimeSec int
	URLs    []URLTime
}

// GroupByDomain aggregates events into per-domain buckets, summing duration
// at both the domain and URL level. Bucket order is first appearance in the
// event stream.
func GroupByDomain(events []Event) []*DomainBucket {
	var buckets []*DomainBucket
	index := map[string]int{}
	for _, ev := range events {
		domain := ExtractDomain(ev.URL)
		i, ok := index[domain]
		if !ok {
			i = len(buckets)
			index[domain] = i
			buckets = append(buckets, &DomainBucket{Domain: domain})
		}
		b := buckets[i]
		b.TimeSec += ev.DurationSec
		found := false
		for j := range b.URLs {
			if b.URLs[j].URL == ev.URL {
				b.URLs[j].TimeSec += ev.DurationSec
				found = true
				break
			}
		}
		if !found {
			b.URLs = append(b.URLs, URLTime{URL: ev.URL, TimeSec: ev.DurationSec})
		}
	}
	return buckets
}

// TopURLs returns up to limit URLs ordered by time spent, descending.
// Ties keep first-seen order.
func (b *DomainBucket) TopURLs(limit int) []string {
	urls := make([]URLTime, len(b.URLs))
	copy(urls, b.URLs)
	sort.SliceStable(urls, func(i, j int) bool { return urls[i].TimeSec > urls[j].TimeSec })
	if len(urls) > limit {
		urls = urls[:limit]
	}
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = u.URL
	}
	return out
}
