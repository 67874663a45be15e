package testclock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
	reg *timedWaitRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.reg = newTimedWaitRegistry()
}

func (s *RegistrySuite) TestRegisterIsIdempotent() {
	g := GoroutineHandle{id: 1}

	s.reg.register(g)
	s.reg.register(g)

	s.Require().Len(s.reg.entries, 1)
}

func (s *RegistrySuite) TestEntryPanicsForUnregisteredGoroutine() {
	s.Require().PanicsWithValue(errUnregisteredGoroutine, func() {
		s.reg.entry(GoroutineHandle{id: 99})
	})
}

func (s *RegistrySuite) TestExpectTimedWaitOnReturnsAfterNotify() {
	g := GoroutineHandle{id: 1}
	s.reg.register(g)

	observed := make(chan struct{})
	go func() {
		s.reg.expectTimedWaitOn(g)
		close(observed)
	}()

	scope := s.reg.notifyTimedWait(g)
	defer scope.Close()

	select {
	case <-observed:
	case <-time.After(time.Second):
		s.Fail("expectTimedWaitOn never observed the notification")
	}
}

func (s *RegistrySuite) TestScopeCloseIsIdempotent() {
	g := GoroutineHandle{id: 1}
	s.reg.register(g)

	scope := s.reg.notifyTimedWait(g)
	scope.Close()
	scope.Close()

	entry := s.reg.entry(g)
	s.Require().Equal(0, entry.active)
}

func (s *RegistrySuite) TestActiveCountReflectsConcurrentScopes() {
	g := GoroutineHandle{id: 1}
	s.reg.register(g)

	const n = 8
	var wg sync.WaitGroup
	scopes := make(chan *timedWaitScope, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scopes <- s.reg.notifyTimedWait(g)
		}()
	}
	wg.Wait()
	close(scopes)

	entry := s.reg.entry(g)
	s.Require().Equal(n, entry.active)

	for sc := range scopes {
		sc.Close()
	}
	s.Require().Equal(0, entry.active)
}
