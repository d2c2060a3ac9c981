package event

import (
	"sync"
	"testing"

	"github.com/kbukum/datakit/dataprovider"
)

func TestSubscribeAndDispatch(t *testing.T) {
	d := NewDispatcher()

	var got []Event
	d.Subscribe(TypeMutate, func(e Event) { got = append(got, e) })

	item := dataprovider.Item{
		Metadata: dataprovider.ItemMetadata{Key: 1},
		Data:     dataprovider.Record{"id": 1},
	}
	d.Dispatch(Added(item))

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Type != TypeMutate {
		t.Errorf("expected mutate event, got %s", got[0].Type)
	}
	if got[0].Add == nil || len(got[0].Add.Keys) != 1 || got[0].Add.Keys[0] != 1 {
		t.Errorf("unexpected add detail: %+v", got[0].Add)
	}
}

func TestDispatchOnlyMatchingType(t *testing.T) {
	d := NewDispatcher()

	mutations := 0
	refreshes := 0
	d.Subscribe(TypeMutate, func(Event) { mutations++ })
	d.Subscribe(TypeRefresh, func(Event) { refreshes++ })

	d.Dispatch(Refresh())

	if mutations != 0 {
		t.Errorf("expected no mutate deliveries, got %d", mutations)
	}
	if refreshes != 1 {
		t.Errorf("expected 1 refresh delivery, got %d", refreshes)
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()

	calls := 0
	sub := d.Subscribe(TypeRefresh, func(Event) { calls++ })

	if !d.Unsubscribe(sub) {
		t.Fatal("expected Unsubscribe to succeed")
	}
	if d.Unsubscribe(sub) {
		t.Error("expected second Unsubscribe to fail")
	}

	d.Dispatch(Refresh())
	if calls != 0 {
		t.Errorf("expected no deliveries after unsubscribe, got %d", calls)
	}
}

func TestConcurrentDispatch(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	calls := 0
	d.Subscribe(TypeRefresh, func(Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Refresh())
		}()
	}
	wg.Wait()

	if calls != 10 {
		t.Errorf("expected 10 deliveries, got %d", calls)
	}
}

func TestEventConstructors(t *testing.T) {
	item := dataprovider.Item{Metadata: dataprovider.ItemMetadata{Key: "k"}}

	if e := Removed(item); e.Remove == nil || e.Add != nil || e.Update != nil {
		t.Errorf("unexpected removed event shape: %+v", e)
	}
	if e := Updated(item); e.Update == nil || e.Update.Keys[0] != "k" {
		t.Errorf("unexpected updated event shape: %+v", e)
	}
}
