package feed

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title> Test Item 1 </title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <dc:publisher>Example Wire</dc:publisher>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData), 0)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	entry1 := entries[0]
	if entry1.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", entry1.Title)
	}
	if entry1.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", entry1.Link)
	}
	if entry1.Source != "Example Wire" {
		t.Errorf("Expected source 'Example Wire', got: %s", entry1.Source)
	}
	if entry1.Published != "Mon, 03 Jul 2023 10:00:00 GMT" {
		t.Errorf("Expected raw published text, got: %s", entry1.Published)
	}

	// Without a publisher the feed title is the source
	if entries[1].Source != "Test Feed" {
		t.Errorf("Expected source 'Test Feed', got: %s", entries[1].Source)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <content type="html">Test content</content>
  </entry>
</feed>`

	parser := NewParser()
	entries, err := parser.Run([]byte(atomData), 0)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", entry.Link)
	}
	if entry.Published != "2023-07-03T10:00:00Z" {
		t.Errorf("Expected updated date as published, got: %s", entry.Published)
	}
	if entry.Source != "Test Atom Feed" {
		t.Errorf("Expected source 'Test Atom Feed', got: %s", entry.Source)
	}
}

func TestParseLimit(t *testing.T) {
	parser := NewParser()
	entries, err := parser.Run([]byte(rssFeed("Limited", 10, "https://example.com/a")), 3)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got: %d", len(entries))
	}
	if entries[2].Link != "https://example.com/a/2" {
		t.Errorf("Expected feed order to be kept, got: %s", entries[2].Link)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run([]byte("invalid xml"), 0)

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

// rssFeed builds an RSS document whose item links are base/0 .. base/n-1.
func rssFeed(title string, n int, base string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel>`)
	fmt.Fprintf(&b, "<title>%s</title><link>%s</link>", title, base)
	for i := range n {
		fmt.Fprintf(&b, "<item><title>%s %d</title><link>%s/%d</link></item>", title, i, base, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}
