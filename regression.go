package transit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// InterceptTerm is the name of the constant term of a RegressionResult.
const InterceptTerm = "intercept"

// maxCondition is the largest condition number of the column-scaled design matrix that is
// treated as full rank.
const maxCondition = 1e12

// RegressionResult is an ordinary least squares fit. Slices are indexed by Terms; the
// intercept is first.
type RegressionResult struct {
	Dependent string
	Terms     []string

	Coefficients []float64
	StdErrors    []float64
	TStats       []float64
	PValues      []float64

	RSquared    float64
	AdjRSquared float64
	Sigma       float64 // residual standard error
	DF          int     // residual degrees of freedom
	N           int
}

// LinearRegression regresses dependent on independents with an intercept. Rows missing any of
// the variables must be removed beforehand (see DropNaN).
func (t *Table) LinearRegression(dependent string, independents ...string) (*RegressionResult, error) {
	if len(independents) == 0 {
		return nil, fmt.Errorf("no independent variables in LinearRegression")
	}

	if has(dependent, independents) {
		return nil, fmt.Errorf("%s is both dependent and independent", dependent)
	}

	var (
		y []float64
		e error
	)
	if y, e = t.floats(dependent); e != nil {
		return nil, e
	}

	n, p := t.RowCount(), len(independents)+1
	if n < p {
		return nil, &SingularMatrixError{Rows: n, Params: p, Msg: "fewer rows than parameters"}
	}

	// design matrix with each column scaled to unit length; scale holds the divisors
	x := mat.NewDense(n, p, nil)
	scale := make([]float64, p)
	for j := 0; j < p; j++ {
		xj := make([]float64, n)
		if j == 0 {
			floats.AddConst(1, xj)
		} else {
			var raw []float64
			if raw, e = t.floats(independents[j-1]); e != nil {
				return nil, e
			}
			copy(xj, raw)
		}

		for ind, v := range xj {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("missing value in column %s row %d", term(independents, j), ind)
			}
		}

		if scale[j] = floats.Norm(xj, 2); scale[j] == 0 {
			return nil, &SingularMatrixError{Rows: n, Params: p, Msg: fmt.Sprintf("column %s is all zero", term(independents, j))}
		}

		floats.Scale(1/scale[j], xj)
		x.SetCol(j, xj)
	}

	for ind, v := range y {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("missing value in column %s row %d", dependent, ind)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, &SingularMatrixError{Rows: n, Params: p, Msg: "SVD did not converge"}
	}

	s := svd.Values(nil)
	if s[p-1] == 0 || s[0]/s[p-1] > maxCondition {
		return nil, &SingularMatrixError{Rows: n, Params: p, Msg: "independent variables are collinear"}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	yv := mat.NewVecDense(n, y)
	var uty mat.VecDense
	uty.MulVec(u.T(), yv)
	for j := 0; j < p; j++ {
		uty.SetVec(j, uty.AtVec(j)/s[j])
	}

	var betaScaled mat.VecDense
	betaScaled.MulVec(&v, &uty)

	var fitted mat.VecDense
	fitted.MulVec(x, &betaScaled)

	ybar := floats.Sum(y) / float64(n)
	var ssr, sst float64
	for ind := 0; ind < n; ind++ {
		r := y[ind] - fitted.AtVec(ind)
		ssr += r * r
		sst += (y[ind] - ybar) * (y[ind] - ybar)
	}

	res := &RegressionResult{
		Dependent: dependent,
		Terms:     append([]string{InterceptTerm}, independents...),
		DF:        n - p,
		N:         n,
		RSquared:  math.NaN(),
	}

	// undefined for a constant dependent
	if sst > 0 {
		res.RSquared = 1 - ssr/sst
	}

	sigma2 := math.NaN()
	res.AdjRSquared = math.NaN()
	if res.DF > 0 {
		sigma2 = ssr / float64(res.DF)
		res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/float64(res.DF)
	}
	res.Sigma = math.Sqrt(sigma2)

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(res.DF)}
	for j := 0; j < p; j++ {
		beta := betaScaled.AtVec(j) / scale[j]

		// diagonal of (X'X)^-1 in the scaled basis is sum_k V[j,k]^2 / s[k]^2
		var vv float64
		for k := 0; k < p; k++ {
			vv += v.At(j, k) * v.At(j, k) / (s[k] * s[k])
		}
		se := math.Sqrt(sigma2*vv) / scale[j]

		tStat, pValue := math.NaN(), math.NaN()
		if res.DF > 0 {
			tStat = beta / se
			pValue = 2 * tDist.Survival(math.Abs(tStat))
		}

		res.Coefficients = append(res.Coefficients, beta)
		res.StdErrors = append(res.StdErrors, se)
		res.TStats = append(res.TStats, tStat)
		res.PValues = append(res.PValues, pValue)
	}

	return res, nil
}

// term returns the name of design column j.
func term(independents []string, j int) string {
	if j == 0 {
		return InterceptTerm
	}

	return independents[j-1]
}

// ***************** RegressionResult - Methods *****************

// Coefficient returns the estimate for termName.
func (r *RegressionResult) Coefficient(termName string) (float64, error) {
	pos := position(termName, r.Terms)
	if pos < 0 {
		return 0, fmt.Errorf("no term %s in regression", termName)
	}

	return r.Coefficients[pos], nil
}

func (r *RegressionResult) Intercept() float64 {
	return r.Coefficients[0]
}

// String is a summary table of the fit.
func (r *RegressionResult) String() string {
	header := []string{"term", "coefficient", "std error", "t", "p"}
	t := fmt.Sprintf("dependent: %s\n", r.Dependent)
	t += prettyPrint(header, r.Terms, r.Coefficients, r.StdErrors, r.TStats, r.PValues)

	return t + fmt.Sprintf("R-squared: %0.4f  adj R-squared: %0.4f  sigma: %0.4g  df: %d  n: %d\n",
		r.RSquared, r.AdjRSquared, r.Sigma, r.DF, r.N)
}
