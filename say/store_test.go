package say_test

import (
	"sync"
	"testing"

	"github.com/dgnsrekt/says/say"
)

func TestStoreEmpty(t *testing.T) {
	store := say.NewStore()
	if _, ok := store.Current(); ok {
		t.Error("empty store should report no current job")
	}
}

func TestStoreRecordOverwrites(t *testing.T) {
	store := say.NewStore()

	first := say.NewJob(say.SynthesisRequest{Text: "first"})
	store.Record(first)

	second := say.NewJob(say.SynthesisRequest{Text: "second"})
	store.Record(second)

	current, ok := store.Current()
	if !ok {
		t.Fatal("store should hold a job")
	}
	if current.ID != second.ID {
		t.Errorf("expected the later job to win, got %q", current.Request.Text)
	}
}

func TestStoreReturnsCopy(t *testing.T) {
	store := say.NewStore()
	job := say.NewJob(say.SynthesisRequest{Text: "x"})
	store.Record(job)

	got, _ := store.Current()
	got.ErrorMessage = "mutated"

	again, _ := store.Current()
	if again.ErrorMessage != "" {
		t.Error("Current must return a copy, not shared state")
	}
}

func TestStoreClear(t *testing.T) {
	store := say.NewStore()
	store.Record(say.NewJob(say.SynthesisRequest{Text: "x"}))
	store.Clear()
	if _, ok := store.Current(); ok {
		t.Error("cleared store should be empty")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := say.NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Record(say.NewJob(say.SynthesisRequest{Text: "x"}))
		}()
		go func() {
			defer wg.Done()
			if job, ok := store.Current(); ok {
				// A reader must never observe a torn record.
				if job.ID == "" {
					t.Error("observed job without ID")
				}
			}
		}()
	}
	wg.Wait()
}
