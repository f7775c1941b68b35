package usecase

import (
	"sync"
	"testing"
)

func TestQueryTrackerCounts(t *testing.T) {
	tr := NewQueryTracker()

	tr.Record("arroz")
	tr.Record("Arroz")
	tr.Record("café")
	tr.Record("cafe")
	tr.Record("feijão")

	if got := tr.TotalQueries(); got != 5 {
		t.Errorf("TotalQueries = %d, want 5", got)
	}
	// Normalization folds case and accents into one bucket.
	if got := tr.UniqueQueries(); got != 3 {
		t.Errorf("UniqueQueries = %d, want 3", got)
	}
}

func TestQueryTrackerTop(t *testing.T) {
	tr := NewQueryTracker()
	for i := 0; i < 3; i++ {
		tr.Record("arroz")
	}
	for i := 0; i < 2; i++ {
		tr.Record("feijao")
	}
	tr.Record("leite")
	tr.Record("carne")

	top := tr.Top(3)
	if len(top) != 3 {
		t.Fatalf("got %d entries, want 3", len(top))
	}
	if top[0].Query != "arroz" || top[0].Count != 3 {
		t.Errorf("top[0] = %+v, want arroz x3", top[0])
	}
	if top[1].Query != "feijao" || top[1].Count != 2 {
		t.Errorf("top[1] = %+v, want feijao x2", top[1])
	}
	// Ties break alphabetically.
	if top[2].Query != "carne" {
		t.Errorf("top[2] = %+v, want carne before leite", top[2])
	}
}

func TestQueryTrackerIgnoresEmpty(t *testing.T) {
	tr := NewQueryTracker()
	tr.Record("")
	tr.Record("   ")
	if got := tr.TotalQueries(); got != 0 {
		t.Errorf("TotalQueries = %d, want 0", got)
	}
}

func TestQueryTrackerConcurrent(t *testing.T) {
	tr := NewQueryTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record("arroz")
				tr.Top(5)
			}
		}()
	}
	wg.Wait()

	if got := tr.TotalQueries(); got != 1000 {
		t.Errorf("TotalQueries = %d, want 1000", got)
	}
}
