package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
)

// makeDocs builds n documents with sequential IDs
func makeDocs(n int) []patentsafe.Document {
	docs := make([]patentsafe.Document, n)
	for i := range docs {
		docs[i] = patentsafe.Document{ID: fmt.Sprintf("DOC-%03d", i)}
	}
	return docs
}

// drain walks a pager from Start until no token remains, returning all pages
func drain(t *testing.T, p *Pager, docs []patentsafe.Document) []*Page {
	t.Helper()

	page, err := p.Start(docs, len(docs))
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	pages := []*Page{page}
	for page.NextPageToken != "" {
		page, err = p.Resume(page.NextPageToken)
		if err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
		pages = append(pages, page)
	}
	return pages
}

// TestDrainPreservesSequence checks that paging any sequence reproduces it
// exactly once in order, for a spread of sizes around the page boundary
func TestDrainPreservesSequence(t *testing.T) {
	tests := []struct {
		n         int
		pageSize  int
		wantPages int
	}{
		{n: 0, pageSize: 10, wantPages: 1},
		{n: 1, pageSize: 10, wantPages: 1},
		{n: 10, pageSize: 10, wantPages: 1},
		{n: 11, pageSize: 10, wantPages: 2},
		{n: 20, pageSize: 10, wantPages: 2},
		{n: 25, pageSize: 10, wantPages: 3},
		{n: 7, pageSize: 3, wantPages: 3},
		{n: 100, pageSize: 1, wantPages: 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d_p=%d", tt.n, tt.pageSize), func(t *testing.T) {
			pager := NewPager(tt.pageSize)
			docs := makeDocs(tt.n)

			pages := drain(t, pager, docs)
			if len(pages) != tt.wantPages {
				t.Errorf("drain produced %d pages, want %d", len(pages), tt.wantPages)
			}

			var got []patentsafe.Document
			for _, page := range pages {
				if page.Total != tt.n {
					t.Errorf("page Total = %d, want %d", page.Total, tt.n)
				}
				got = append(got, page.Documents...)
			}

			if len(got) != tt.n {
				t.Fatalf("drained %d documents, want %d", len(got), tt.n)
			}
			for i, doc := range got {
				if doc.ID != docs[i].ID {
					t.Errorf("document %d = %s, want %s (order must be preserved)", i, doc.ID, docs[i].ID)
				}
			}

			if last := pages[len(pages)-1]; last.NextPageToken != "" {
				t.Errorf("last page carries token %q, want none", last.NextPageToken)
			}
			if pager.Len() != 0 {
				t.Errorf("pager retains %d entries after full drain, want 0", pager.Len())
			}
		})
	}
}

// TestThreePageWalk pins the exact windows for n=25, p=10
func TestThreePageWalk(t *testing.T) {
	pager := NewPager(10)
	docs := makeDocs(25)

	page1, err := pager.Start(docs, 25)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(page1.Documents) != 10 || page1.Documents[0].ID != "DOC-000" || page1.Documents[9].ID != "DOC-009" {
		t.Errorf("page1 window wrong: %d docs, first %s", len(page1.Documents), page1.Documents[0].ID)
	}
	if page1.NextPageToken == "" {
		t.Fatal("page1 missing continuation token")
	}

	page2, err := pager.Resume(page1.NextPageToken)
	if err != nil {
		t.Fatalf("Resume(T1) error = %v", err)
	}
	if len(page2.Documents) != 10 || page2.Documents[0].ID != "DOC-010" {
		t.Errorf("page2 window wrong: %d docs, first %s", len(page2.Documents), page2.Documents[0].ID)
	}
	if page2.NextPageToken == "" || page2.NextPageToken == page1.NextPageToken {
		t.Errorf("page2 token = %q, want a fresh token", page2.NextPageToken)
	}

	page3, err := pager.Resume(page2.NextPageToken)
	if err != nil {
		t.Fatalf("Resume(T2) error = %v", err)
	}
	if len(page3.Documents) != 5 || page3.Documents[4].ID != "DOC-024" {
		t.Errorf("page3 window wrong: %d docs", len(page3.Documents))
	}
	if page3.NextPageToken != "" {
		t.Errorf("page3 token = %q, want none", page3.NextPageToken)
	}

	// T2 was consumed by the successful redemption above
	if _, err := pager.Resume(page2.NextPageToken); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second Resume(T2) error = %v, want ErrTokenNotFound", err)
	}
}

// TestResumeAtMostOnce checks single-use token semantics
func TestResumeAtMostOnce(t *testing.T) {
	pager := NewPager(5)
	page, err := pager.Start(makeDocs(12), 12)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := pager.Resume(page.NextPageToken); err != nil {
		t.Fatalf("first Resume() error = %v", err)
	}
	if _, err := pager.Resume(page.NextPageToken); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second Resume() error = %v, want ErrTokenNotFound", err)
	}
}

func TestResumeUnknownToken(t *testing.T) {
	pager := NewPager(10)
	if _, err := pager.Resume("no-such-token"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Resume(unknown) error = %v, want ErrTokenNotFound", err)
	}
}

// TestSmallResultSetStoresNothing checks that n <= p leaves no state behind
func TestSmallResultSetStoresNothing(t *testing.T) {
	pager := NewPager(10)
	page, err := pager.Start(makeDocs(3), 3)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if page.NextPageToken != "" {
		t.Errorf("token = %q, want none for n <= page size", page.NextPageToken)
	}
	if pager.Len() != 0 {
		t.Errorf("pager stored %d entries, want 0", pager.Len())
	}
}

func TestNewPagerDefaultsPageSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if got := NewPager(size).PageSize(); got != DefaultPageSize {
			t.Errorf("NewPager(%d).PageSize() = %d, want %d", size, got, DefaultPageSize)
		}
	}
}

func TestTokenShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := newToken()
		if err != nil {
			t.Fatalf("newToken() error = %v", err)
		}
		if len(token) != tokenLength {
			t.Fatalf("token length = %d, want %d", len(token), tokenLength)
		}
		for _, r := range token {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				t.Fatalf("token %q contains non-alphanumeric %q", token, r)
			}
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %q", token)
		}
		seen[token] = true
	}
}

// TestConcurrentResume checks that concurrent redemption of one token
// succeeds exactly once
func TestConcurrentResume(t *testing.T) {
	pager := NewPager(5)
	page, err := pager.Start(makeDocs(20), 20)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	const workers = 16
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := pager.Resume(page.NextPageToken)
			results <- err
		}()
	}

	var successes int
	for i := 0; i < workers; i++ {
		if err := <-results; err == nil {
			successes++
		} else if !errors.Is(err, ErrTokenNotFound) {
			t.Errorf("Resume() error = %v, want ErrTokenNotFound", err)
		}
	}
	if successes != 1 {
		t.Errorf("token redeemed %d times, want exactly 1", successes)
	}
}
