package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func (s *BreakerSuite) breaker(opts ...Option) *Breaker {
	opts = append(opts, WithClock(func() time.Time { return s.now }))
	return New("forensics", opts...)
}

func (s *BreakerSuite) TestDefaults() {
	b := New("search")
	s.Equal("search", b.Name())
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
	for range defaultFailureThreshold - 1 {
		b.RecordFailure()
	}
	s.False(b.IsOpen())
	b.RecordFailure()
	s.True(b.IsOpen())
}

func (s *BreakerSuite) TestOpening() {
	cases := []struct {
		name      string
		record    []bool // true = success
		threshold int
		wantOpen  bool
	}{
		{name: "below threshold", record: []bool{false, false}, threshold: 3},
		{name: "at threshold", record: []bool{false, false, false}, threshold: 3, wantOpen: true},
		{name: "success in between restarts the count", record: []bool{false, false, true, false, false}, threshold: 3},
		{name: "single failure with threshold one", record: []bool{false}, threshold: 1, wantOpen: true},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			b := s.breaker(WithFailureThreshold(tc.threshold))
			for _, ok := range tc.record {
				if ok {
					b.RecordSuccess()
				} else {
					b.RecordFailure()
				}
			}
			s.Equal(tc.wantOpen, b.IsOpen())
		})
	}
}

func (s *BreakerSuite) TestStateChangesAreReportedOnce() {
	b := s.breaker(WithFailureThreshold(2), WithSuccessThreshold(2))

	useFallback, change := b.RecordFailure()
	s.False(useFallback)
	s.False(change.Opened)

	useFallback, change = b.RecordFailure()
	s.True(useFallback)
	s.True(change.Opened)

	useFallback, change = b.RecordFailure()
	s.True(useFallback)
	s.False(change.Opened, "already open")

	usePrimary, change := b.RecordSuccess()
	s.False(usePrimary)
	s.False(change.Closed)

	usePrimary, change = b.RecordSuccess()
	s.True(usePrimary)
	s.True(change.Closed)
	s.Equal(StateClosed, b.State())
}

func (s *BreakerSuite) TestProbeFailureRestartsRecovery() {
	b := s.breaker(WithFailureThreshold(1), WithSuccessThreshold(3))
	b.RecordFailure()

	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordFailure()
	s.True(b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()
	s.True(b.IsOpen())
	b.RecordSuccess()
	s.False(b.IsOpen())
}

func (s *BreakerSuite) TestCooldownGatesProbes() {
	b := s.breaker(WithFailureThreshold(1), WithCooldown(time.Minute))
	b.RecordFailure()
	s.False(b.Allow(), "calls are short-circuited during cooldown")

	s.now = s.now.Add(59 * time.Second)
	s.False(b.Allow())

	s.now = s.now.Add(2 * time.Second)
	s.True(b.Allow(), "a probe is let through after cooldown")
	s.True(b.IsOpen(), "probing alone does not close")
}

func (s *BreakerSuite) TestReset() {
	b := s.breaker(WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
}
