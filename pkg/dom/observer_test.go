package dom

import "testing"

func TestObserverBatchesOneTurn(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")
	d.Body().AppendChild(n)

	var batches [][]Record
	obs := NewObserver(func(recs []Record) { batches = append(batches, recs) })
	obs.Observe(n, AllChanges())

	n.SetAttr("a", "1")
	n.SetAttr("b", "2")
	n.AppendChild(d.CreateElement("span"))

	if len(batches) != 0 {
		t.Fatal("observer fired synchronously")
	}

	d.Scheduler().Tick()

	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}
	if len(batches[0]) != 3 {
		t.Errorf("records = %d, want 3", len(batches[0]))
	}
}

func TestObserverSubtreeDepth(t *testing.T) {
	d := newTestDoc()
	root := d.CreateElement("div")
	mid := d.CreateElement("section")
	leaf := d.CreateText("x")
	root.AppendChild(mid)
	mid.AppendChild(leaf)

	var got []Record
	obs := NewObserver(func(recs []Record) { got = append(got, recs...) })
	obs.Observe(root, AllChanges())

	leaf.SetText("y")
	d.Scheduler().Tick()

	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Type != RecordCharacterData || got[0].Target != leaf {
		t.Errorf("record = %+v, want CharacterData on leaf", got[0])
	}
	if got[0].OldValue != "x" {
		t.Errorf("OldValue = %q, want x", got[0].OldValue)
	}
}

func TestObserverWithoutSubtreeIgnoresDescendants(t *testing.T) {
	d := newTestDoc()
	root := d.CreateElement("div")
	child := d.CreateElement("span")
	root.AppendChild(child)

	fired := 0
	obs := NewObserver(func([]Record) { fired++ })
	obs.Observe(root, Options{ChildList: true, Attributes: true})

	child.SetAttr("a", "1")
	d.Scheduler().Tick()
	if fired != 0 {
		t.Error("observer fired for descendant mutation without Subtree")
	}

	root.SetAttr("a", "1")
	d.Scheduler().Tick()
	if fired != 1 {
		t.Errorf("fired = %d for direct mutation, want 1", fired)
	}
}

func TestObserverTypeFilter(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")

	var got []Record
	obs := NewObserver(func(recs []Record) { got = append(got, recs...) })
	obs.Observe(n, Options{Subtree: true, ChildList: true})

	n.SetAttr("a", "1")
	n.AppendChild(d.CreateElement("span"))
	d.Scheduler().Tick()

	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Type != RecordChildList {
		t.Errorf("record type = %v, want ChildList", got[0].Type)
	}
}

func TestObserverDisconnectDiscardsQueued(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")

	fired := 0
	obs := NewObserver(func([]Record) { fired++ })
	obs.Observe(n, AllChanges())

	n.SetAttr("a", "1")
	obs.Disconnect()
	d.Scheduler().Tick()

	if fired != 0 {
		t.Error("observer fired after Disconnect")
	}

	// And it stops observing new mutations entirely.
	n.SetAttr("b", "2")
	d.Scheduler().Tick()
	if fired != 0 {
		t.Error("observer fired for mutation after Disconnect")
	}

	obs.Disconnect() // idempotent
}

func TestObserverTakeRecords(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")

	fired := 0
	obs := NewObserver(func([]Record) { fired++ })
	obs.Observe(n, AllChanges())

	n.SetAttr("a", "1")
	recs := obs.TakeRecords()
	if len(recs) != 1 {
		t.Fatalf("TakeRecords() = %d records, want 1", len(recs))
	}

	d.Scheduler().Tick()
	if fired != 0 {
		t.Error("delivery fired for records already taken")
	}
}

func TestObserverRecordsDeliveredOncePerObserver(t *testing.T) {
	d := newTestDoc()
	root := d.CreateElement("div")
	child := d.CreateElement("span")
	root.AppendChild(child)

	var got []Record
	obs := NewObserver(func(recs []Record) { got = append(got, recs...) })
	obs.Observe(root, AllChanges())
	obs.Observe(child, AllChanges())

	child.SetAttr("a", "1")
	d.Scheduler().Tick()

	if len(got) != 1 {
		t.Errorf("records = %d for doubly-observed target, want 1", len(got))
	}
}

func TestObserverMutationInCallbackStartsNewBatch(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")

	fired := 0
	var obs *Observer
	obs = NewObserver(func([]Record) {
		fired++
		if fired == 1 {
			n.SetAttr("again", "1")
		}
	})
	obs.Observe(n, AllChanges())

	n.SetAttr("a", "1")
	d.Scheduler().Tick()

	if fired != 2 {
		t.Errorf("fired = %d, want 2 (second batch from callback mutation)", fired)
	}
}

func TestNoValueChangeNoRecord(t *testing.T) {
	d := newTestDoc()
	n := d.CreateElement("div")
	n.SetAttr("a", "1")
	d.Scheduler().Tick()

	fired := 0
	obs := NewObserver(func([]Record) { fired++ })
	obs.Observe(n, AllChanges())

	n.SetAttr("a", "1") // same value
	d.Scheduler().Tick()

	if fired != 0 {
		t.Error("observer fired for no-op attribute set")
	}
}
