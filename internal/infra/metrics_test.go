package infra

import "testing"

func TestMetrics_RecordTickLatency(t *testing.T) {
	m := &Metrics{}

	m.RecordTick(3000)
	m.RecordTick(1000)
	m.RecordTick(2000)

	snap := m.Snapshot()
	if snap.TicksProcessed != 3 {
		t.Errorf("expected 3 ticks, got %d", snap.TicksProcessed)
	}
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("expected avg 2000, got %d", snap.AvgLatencyNs)
	}
	if snap.MinLatencyNs != 1000 {
		t.Errorf("expected min 1000, got %d", snap.MinLatencyNs)
	}
	if snap.MaxLatencyNs != 3000 {
		t.Errorf("expected max 3000, got %d", snap.MaxLatencyNs)
	}
}

func TestMetrics_RecordDecision(t *testing.T) {
	m := &Metrics{}

	m.RecordDecision("BUY")
	m.RecordDecision("SELL")
	m.RecordDecision("SELL")
	m.RecordDecision("HOLD")
	m.RecordDecision("whatever") // unknown counts as hold

	snap := m.Snapshot()
	if snap.DecisionsBuy != 1 || snap.DecisionsSell != 2 || snap.DecisionsHold != 2 {
		t.Errorf("unexpected decision counts: %+v", snap)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordTick(1000)
	m.RecordDecision("BUY")
	m.RecordSnapshotSave()
	m.RecordBookRefresh()
	m.RecordError()

	m.Reset()

	snap := m.Snapshot()
	if snap.TicksProcessed != 0 || snap.DecisionsBuy != 0 || snap.SnapshotSaves != 0 ||
		snap.BookRefreshes != 0 || snap.ErrorsTotal != 0 || snap.MinLatencyNs != 0 || snap.MaxLatencyNs != 0 {
		t.Errorf("expected zeroed metrics after reset, got %+v", snap)
	}
}
