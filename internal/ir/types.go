package ir

// IntegrandRef names an integrand from the catalog or gives polynomial
// coefficients (ascending powers). Exactly one field is set.
type IntegrandRef struct {
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	Poly []float64 `json:"poly,omitempty" yaml:"poly,omitempty"`
}

// String returns the name, or "poly" for polynomials.
func (r IntegrandRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	if len(r.Poly) > 0 {
		return "poly"
	}
	return ""
}

// StudySpec declares a convergence study: one integrand on one interval,
// evaluated by each method at each subdivision count.
type StudySpec struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Integrand    IntegrandRef `json:"integrand"`
	A            float64      `json:"a"`
	B            float64      `json:"b"`
	Methods      []string     `json:"methods"`
	Subdivisions []int        `json:"subdivisions"`

	// Floor is the absolute error below which a measurement is treated as
	// exact and left out of the order fit.
	Floor float64 `json:"floor"`

	// Tolerance is the allowed |measured - expected| order difference.
	Tolerance float64 `json:"tolerance"`

	// CheckOrder enables the order-of-accuracy comparison.
	CheckOrder bool `json:"check_order"`
}

// Measurement is one (method, N) evaluation.
type Measurement struct {
	Method   string  `json:"method"`
	N        int     `json:"n"`
	Value    float64 `json:"value"`
	AbsError float64 `json:"abs_error"`
}

// Fit status values.
const (
	FitPass         = "pass"
	FitFail         = "fail"
	FitExact        = "exact"
	FitInsufficient = "insufficient"
	FitSkipped      = "skipped"
)

// OrderFit is the fitted convergence order of one method.
type OrderFit struct {
	Method   string  `json:"method"`
	Expected int     `json:"expected"`
	Measured float64 `json:"measured"`
	Points   int     `json:"points"`
	Status   string  `json:"status"`
}

// StudyResult holds everything a study run produced.
type StudyResult struct {
	StudyID      string        `json:"study_id"`
	Study        StudySpec     `json:"study"`
	Exact        float64       `json:"exact"`
	Measurements []Measurement `json:"measurements"`
	Fits         []OrderFit    `json:"fits"`
}

// Passed reports whether no fit failed.
func (r *StudyResult) Passed() bool {
	for _, f := range r.Fits {
		if f.Status == FitFail || f.Status == FitInsufficient {
			return false
		}
	}
	return true
}

// MeasurementsFor returns the measurements of one method in N order.
func (r *StudyResult) MeasurementsFor(method string) []Measurement {
	var out []Measurement
	for _, m := range r.Measurements {
		if m.Method == method {
			out = append(out, m)
		}
	}
	return out
}
