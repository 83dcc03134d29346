package quad

// Func is a real integrand. It must be pure and defined at every sample point
// a rule requests; NaN or ±Inf at a sample is reported as DOMAIN_ERROR.
type Func func(x float64) float64
