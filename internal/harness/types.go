package harness

// Trace event types.
const (
	EventCase      = "case"
	EventAssertion = "assertion"
)

// TraceEvent records one case evaluation or one assertion outcome.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Type string `json:"type"`

	// Case fields.
	Method string   `json:"method,omitempty"`
	N      int      `json:"n,omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Error  string   `json:"error,omitempty"` // quad error code
	X      *float64 `json:"x,omitempty"`     // abscissa of a domain error

	// Assertion fields.
	Assertion string `json:"assertion,omitempty"`
	Pass      *bool  `json:"pass,omitempty"`
}

// canonicalValue lists only the fields set for the event's type.
func (e TraceEvent) canonicalValue() map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"type": e.Type,
	}
	if e.Method != "" {
		m["method"] = e.Method
	}
	switch e.Type {
	case EventCase:
		m["n"] = e.N
		if e.Value != nil {
			m["value"] = *e.Value
		}
		if e.Error != "" {
			m["error"] = e.Error
		}
		if e.X != nil {
			m["x"] = *e.X
		}
	case EventAssertion:
		m["assertion"] = e.Assertion
		if e.Pass != nil {
			m["pass"] = *e.Pass
		}
	}
	return m
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every case expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds case evaluations followed by assertion outcomes.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) nextSeq() int64 {
	return int64(len(r.Trace)) + 1
}

// addCaseTrace appends a case evaluation.
func (r *Result) addCaseTrace(method string, n int, value *float64, code string, x *float64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    r.nextSeq(),
		Type:   EventCase,
		Method: method,
		N:      n,
		Value:  value,
		Error:  code,
		X:      x,
	})
}

// addAssertionTrace appends an assertion outcome.
func (r *Result) addAssertionTrace(kind, method string, pass bool) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:       r.nextSeq(),
		Type:      EventAssertion,
		Method:    method,
		Assertion: kind,
		Pass:      &pass,
	})
}
