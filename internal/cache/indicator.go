package cache

import (
	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

// IndicatorStore keeps bounded raw-value histories for the three
// update cadences and answers whether a cadence is due on a given
// tick. It performs no computation; the indicator engine decides what
// to append.
//
// Only the pipeline goroutine touches the store, so no locking is
// needed here.
type IndicatorStore struct {
	fastInterval   int64
	mediumInterval int64
	heavyInterval  int64

	fast   *Window[decimal.Decimal]
	medium *Window[decimal.Decimal]
	heavy  *Window[decimal.Decimal]
}

// NewIndicatorStore creates a store sized from the pair window and
// gated by the given cadence intervals (ticks). An interval of 0
// permanently disables that cadence.
func NewIndicatorStore(pair *domain.Pair, fastInterval, mediumInterval, heavyInterval int) *IndicatorStore {
	size := pair.IndicatorWindowSize
	return &IndicatorStore{
		fastInterval:   int64(fastInterval),
		mediumInterval: int64(mediumInterval),
		heavyInterval:  int64(heavyInterval),
		fast:           NewWindow[decimal.Decimal](size),
		medium:         NewWindow[decimal.Decimal](size),
		heavy:          NewWindow[decimal.Decimal](size),
	}
}

func shouldUpdate(interval, tickID int64) bool {
	return interval > 0 && tickID%interval == 0
}

func (s *IndicatorStore) ShouldUpdateFast(tickID int64) bool {
	return shouldUpdate(s.fastInterval, tickID)
}

func (s *IndicatorStore) ShouldUpdateMedium(tickID int64) bool {
	return shouldUpdate(s.mediumInterval, tickID)
}

func (s *IndicatorStore) ShouldUpdateHeavy(tickID int64) bool {
	return shouldUpdate(s.heavyInterval, tickID)
}

func (s *IndicatorStore) AppendFast(v decimal.Decimal)   { s.fast.Append(v) }
func (s *IndicatorStore) AppendMedium(v decimal.Decimal) { s.medium.Append(v) }
func (s *IndicatorStore) AppendHeavy(v decimal.Decimal)  { s.heavy.Append(v) }

func (s *IndicatorStore) FastHistory() []decimal.Decimal   { return s.fast.Items() }
func (s *IndicatorStore) MediumHistory() []decimal.Decimal { return s.medium.Items() }
func (s *IndicatorStore) HeavyHistory() []decimal.Decimal  { return s.heavy.Items() }

var _ domain.IndicatorStore = (*IndicatorStore)(nil)
