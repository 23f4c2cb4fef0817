package converter

// errAgg counts messages and keeps the first few.
type errAgg struct {
	limit int
	count int
	first []string
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit}
}

func (a *errAgg) add(msg string) {
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
}
