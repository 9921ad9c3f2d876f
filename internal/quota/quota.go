// Package quota tracks advisory per-provider call budgets. Counters live in
// process memory only; the real limits are enforced server-side by each
// backend, so losing state on restart is acceptable.
package quota

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Limits is the published free-tier allowance of a metered backend. A zero
// DailyLimit is derived conservatively from the monthly allowance.
type Limits struct {
	DailyLimit   int
	MonthlyLimit int
}

// dailyCeiling computes the effective calls-per-day budget. When only a
// monthly figure is known we spread it evenly and round down, which
// undershoots on short months rather than overspending.
func (l Limits) dailyCeiling() int {
	if l.DailyLimit > 0 {
		return l.DailyLimit
	}
	if l.MonthlyLimit > 0 {
		return l.MonthlyLimit / 30
	}
	return 0
}

type budget struct {
	limits    Limits
	callsUsed int
	resetDate string // local date string of the current window
}

// Governor owns every ProviderBudget record. All access goes through its
// check-then-increment path, which is atomic per governor so two concurrent
// runs cannot overspend a shared daily quota.
type Governor struct {
	mu      sync.Mutex
	budgets map[string]*budget
	now     func() time.Time // test hook
}

// NewGovernor returns an empty governor. Providers register lazily on first
// Configure or Reserve.
func NewGovernor() *Governor {
	return &Governor{
		budgets: make(map[string]*budget),
		now:     time.Now,
	}
}

// Configure sets the limits for a provider, creating its budget record if
// needed. Calling it again replaces the limits but keeps the current usage.
func (g *Governor) Configure(providerID string, limits Limits) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.budgets[providerID]
	if b == nil {
		b = &budget{resetDate: g.localDate()}
		g.budgets[providerID] = b
	}
	b.limits = limits
}

// Reserve grants one call in the current window and consumes its slot
// immediately, so the check and the increment happen in a single critical
// section and two concurrent runs can never both take the last slot.
// Unregistered providers and providers with no limits are always allowed.
// Pair with Release when the call never goes out.
func (g *Governor) Reserve(providerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.budgets[providerID]
	if b == nil {
		return true
	}
	g.rollWindow(providerID, b)
	ceiling := b.limits.dailyCeiling()
	if ceiling <= 0 {
		return true
	}
	if b.callsUsed >= ceiling {
		log.Debug().Str("provider", providerID).Int("used", b.callsUsed).Int("ceiling", ceiling).Msg("daily quota exhausted")
		return false
	}
	b.callsUsed++
	return true
}

// Release refunds a reservation whose call never reached the backend.
func (g *Governor) Release(providerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.budgets[providerID]
	if b == nil {
		return
	}
	g.rollWindow(providerID, b)
	if b.callsUsed > 0 {
		b.callsUsed--
	}
}

// Remaining returns how many calls are left in the window, or -1 when the
// provider is unmetered.
func (g *Governor) Remaining(providerID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.budgets[providerID]
	if b == nil {
		return -1
	}
	g.rollWindow(providerID, b)
	ceiling := b.limits.dailyCeiling()
	if ceiling <= 0 {
		return -1
	}
	rem := ceiling - b.callsUsed
	if rem < 0 {
		rem = 0
	}
	return rem
}

// rollWindow resets usage when the local date has advanced past the stored
// reset date. Caller must hold mu.
func (g *Governor) rollWindow(providerID string, b *budget) {
	today := g.localDate()
	if b.resetDate != today {
		if b.callsUsed > 0 {
			log.Debug().Str("provider", providerID).Str("window", today).Msg("quota window rolled over")
		}
		b.callsUsed = 0
		b.resetDate = today
	}
}

func (g *Governor) localDate() string {
	return g.now().Local().Format("2006-01-02")
}
