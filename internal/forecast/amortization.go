package forecast

import (
	"math"
	"time"
)

// Installment is the principal/interest split of a single scheduled payment.
type Installment struct {
	Number    int       `json:"number"`
	DueDate   time.Time `json:"due_date"`
	Payment   float64   `json:"payment"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
}

// Summary aggregates a run of consecutive installments.
type Summary struct {
	Count         int     `json:"count"`
	Payments      float64 `json:"payments"`
	Principal     float64 `json:"principal"`
	Interest      float64 `json:"interest"`
	EndingBalance float64 `json:"ending_balance"`
}

// DebtSchedule reports the scheduled debt service due in a date range.
type DebtSchedule interface {
	Between(from, to time.Time) Summary
}

// Schedule is a level-payment amortization schedule. The zero schedule (no loan)
// reports zero for every query, which is how all-cash properties are modelled.
type Schedule struct {
	principal  float64
	annualRate float64
	months     int
	frequency  PaymentFrequency
	start      time.Time

	rate    float64 // per period
	periods int     // payments until the balance reaches zero
	payment float64
}

// NewSchedule builds the schedule of a loan of principal at the nominal annualRate,
// amortized over amortizationMonths and paid at the given frequency from start.
func NewSchedule(principal, annualRate float64, amortizationMonths int, frequency PaymentFrequency, start time.Time) *Schedule {
	s := &Schedule{
		principal:  principal,
		annualRate: annualRate,
		months:     amortizationMonths,
		frequency:  frequency,
		start:      start,
	}
	ppy := frequency.PeriodsPerYear()
	if principal <= 0 || amortizationMonths <= 0 || ppy == 0 {
		return s
	}

	s.rate = annualRate / float64(ppy)
	if frequency.Accelerated() {
		monthly := annuityPayment(principal, annualRate/MonthsPerYear, amortizationMonths)
		s.payment = monthly / float64(ppy/MonthsPerYear)
		s.periods = payoffPeriods(principal, s.rate, s.payment)
		return s
	}

	n := int(math.Round(float64(amortizationMonths*ppy) / MonthsPerYear))
	s.payment = annuityPayment(principal, s.rate, n)
	s.periods = n
	return s
}

// ScheduleFor returns the schedule of m. A nil mortgage or one without principal
// yields the zero schedule. When m has no start date, fallbackStart is used.
func ScheduleFor(m *Mortgage, fallbackStart time.Time) *Schedule {
	if m == nil || m.OriginalAmount <= 0 {
		return &Schedule{start: fallbackStart}
	}
	start := m.StartDate
	if start.IsZero() {
		start = fallbackStart
	}
	return NewSchedule(m.OriginalAmount, m.InterestRate, m.AmortizationMonths(), m.PaymentFrequency, start)
}

func annuityPayment(principal, rate float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return principal / float64(n)
	}
	f := math.Pow(1+rate, float64(n))
	return principal * rate * f / (f - 1)
}

// payoffPeriods is the number of payments of size payment needed to retire principal.
func payoffPeriods(principal, rate, payment float64) int {
	if payment <= 0 {
		return 0
	}
	if rate == 0 {
		return int(math.Ceil(principal/payment - 1e-9))
	}
	ratio := principal * rate / payment
	if ratio >= 1 {
		// payment never covers the interest; treat as non-amortizing
		return math.MaxInt32
	}
	n := -math.Log(1-ratio) / math.Log(1+rate)
	return int(math.Ceil(n - 1e-9))
}

func (s *Schedule) empty() bool { return s == nil || s.periods == 0 }

// Payment is the periodic payment amount.
func (s *Schedule) Payment() float64 {
	if s.empty() {
		return 0
	}
	return s.payment
}

// PeriodicRate is the interest rate applied each period.
func (s *Schedule) PeriodicRate() float64 {
	if s.empty() {
		return 0
	}
	return s.rate
}

// PeriodsPerYear is the number of payments per year.
func (s *Schedule) PeriodsPerYear() int {
	if s.empty() {
		return 0
	}
	return s.frequency.PeriodsPerYear()
}

// TotalPeriods is the number of payments until the loan is retired.
func (s *Schedule) TotalPeriods() int {
	if s.empty() {
		return 0
	}
	return s.periods
}

// Start is the date the schedule begins; the first payment falls one period later.
func (s *Schedule) Start() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.start
}

// BalanceAfter returns the outstanding balance once k payments have been made.
func (s *Schedule) BalanceAfter(k int) float64 {
	if s.empty() {
		return 0
	}
	if k <= 0 {
		return s.principal
	}
	if k >= s.periods {
		return 0
	}
	var b float64
	if s.rate == 0 {
		b = s.principal - s.payment*float64(k)
	} else {
		f := math.Pow(1+s.rate, float64(k))
		b = s.principal*f - s.payment*(f-1)/s.rate
	}
	if b < 0 {
		return 0
	}
	return b
}

// Installment returns the split of the k-th payment (1-based). Periods outside the
// schedule return a zero installment.
func (s *Schedule) Installment(k int) Installment {
	if s.empty() || k < 1 || k > s.periods {
		return Installment{Number: k}
	}
	opening := s.BalanceAfter(k - 1)
	interest := opening * s.rate
	principal := s.payment - interest
	if principal > opening || k == s.periods {
		principal = opening
	}
	return Installment{
		Number:    k,
		DueDate:   s.DueDate(k),
		Payment:   principal + interest,
		Principal: principal,
		Interest:  interest,
		Balance:   opening - principal,
	}
}

// DueDate returns the date the k-th payment falls due.
func (s *Schedule) DueDate(k int) time.Time {
	if s == nil {
		return time.Time{}
	}
	switch s.frequency {
	case FrequencySemiMonthly:
		return s.start.AddDate(0, k/2, 15*(k%2))
	case FrequencyBiWeekly, FrequencyAcceleratedBiWeekly:
		return s.start.AddDate(0, 0, 14*k)
	case FrequencyWeekly, FrequencyAcceleratedWeekly:
		return s.start.AddDate(0, 0, 7*k)
	default:
		return s.start.AddDate(0, k, 0)
	}
}

// PaymentsBefore counts the payments that fall due strictly before t.
func (s *Schedule) PaymentsBefore(t time.Time) int {
	if s.empty() || !s.start.Before(t) {
		return 0
	}
	k := 0
	for k < s.periods && s.DueDate(k+1).Before(t) {
		k++
	}
	return k
}

// Between aggregates the payments due in [from, to).
func (s *Schedule) Between(from, to time.Time) Summary {
	if s.empty() {
		return Summary{}
	}
	return s.sum(s.PaymentsBefore(from)+1, s.PaymentsBefore(to))
}

// Year aggregates the payments of the y-th year (1-based) of the schedule.
func (s *Schedule) Year(y int) Summary {
	if s.empty() || y < 1 {
		return Summary{}
	}
	ppy := s.PeriodsPerYear()
	return s.sum((y-1)*ppy+1, y*ppy)
}

func (s *Schedule) sum(first, last int) Summary {
	if last > s.periods {
		last = s.periods
	}
	var out Summary
	for k := first; k <= last; k++ {
		in := s.Installment(k)
		out.Count++
		out.Payments += in.Payment
		out.Principal += in.Principal
		out.Interest += in.Interest
	}
	if last < first {
		last = first - 1
	}
	out.EndingBalance = s.BalanceAfter(last)
	return out
}
