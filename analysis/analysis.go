// Package analysis runs the cost comparison: BRT cost per revenue hour, published estimates
// against those costs, rail train-hour and car-hour costs, and the rail cost regression.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	tr "github.com/invertedv/transit"
	"github.com/invertedv/transit/config"
	"github.com/invertedv/transit/ntd"
	"github.com/invertedv/transit/source"
	"go.uber.org/zap"
)

// Pipeline steps, in order.
const (
	StepBRT        = "brt"
	StepEstimates  = "estimates"
	StepRail       = "rail"
	StepRegression = "regression"
)

// StepError names the step of Run that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Results holds everything Run computes. Figures that need peers are NaN when too few peer
// services were found.
type Results struct {
	RunID         string
	Year          int
	InflationRate float64

	BRT        BRTResults
	Estimates  []EstimateResult
	Rail       RailResults
	Regression *tr.RegressionResult
}

// BRTResults is the cost per vehicle revenue hour of bus rapid transit.
type BRTResults struct {
	Mode   string
	Status string

	// Services and Expenses count the selected services reporting hours and expense for the year.
	Services int
	Expenses int

	Agencies []ntd.AgencyCost

	National  float64
	Peer      float64
	PeerCount int
	CV        float64
}

// EstimateResult compares a published estimate with the BRT averages.
type EstimateResult struct {
	Name  string
	Years float64

	// CostPerHour is in year-of-expenditure dollars, BaseCostPerHour in base-year dollars.
	CostPerHour     float64
	BaseCostPerHour float64

	VsNational float64
	VsPeer     float64
}

// RailResults compares cost per train revenue hour with cost per car revenue hour.
type RailResults struct {
	Mode     string
	Services []ntd.JoinedEconomicsRecord

	TrainHourCost float64
	CarHourCost   float64
	CVTrain       float64
	CVCar         float64

	PeerCount         int
	PeerTrainHourCost float64
	PeerCarHourCost   float64
	PeerCVTrain       float64
	PeerCVCar         float64

	// TrainLessDispersed is true when train-hour cost varies less across agencies than car-hour cost.
	TrainLessDispersed bool
}

// Run performs the analysis on in as configured by cfg. Any failure stops the run and is
// returned as a *StepError.
func Run(cfg *config.Config, in *source.Inputs, logger *zap.Logger) (*Results, error) {
	res := &Results{RunID: uuid.NewString(), Year: cfg.Year, InflationRate: cfg.Inflation.Rate}
	logger = logger.With(zap.String("run_id", res.RunID))
	logger.Info("starting run", zap.Int("year", cfg.Year))

	var (
		econ *tr.Table
		e    error
	)
	if res.BRT, e = brt(cfg, in, logger); e != nil {
		return nil, &StepError{Step: StepBRT, Err: e}
	}

	if res.Estimates, e = estimates(cfg, &res.BRT, logger); e != nil {
		return nil, &StepError{Step: StepEstimates, Err: e}
	}

	if res.Rail, econ, e = rail(cfg, in, logger); e != nil {
		return nil, &StepError{Step: StepRail, Err: e}
	}

	if res.Regression, e = regression(cfg, econ, logger); e != nil {
		return nil, &StepError{Step: StepRegression, Err: e}
	}

	logger.Info("run complete")

	return res, nil
}

// ***************** Steps *****************

func brt(cfg *config.Config, in *source.Inputs, logger *zap.Logger) (BRTResults, error) {
	res := BRTResults{Mode: cfg.BRT.Mode, Status: cfg.BRT.Status}

	var (
		svc, exp, costs, peers *tr.Table
		e                      error
	)
	if svc, e = in.Service.FilterByModeAndStatus(cfg.BRT.Mode, cfg.BRT.Status); e != nil {
		return res, e
	}

	if exp, e = in.Expense.Filter(ntd.Mode, cfg.BRT.Mode); e != nil {
		return res, e
	}

	if res.Services, res.Expenses, e = reporting(svc, exp, cfg.Year); e != nil {
		return res, e
	}

	if costs, e = ntd.Costs(svc, exp, cfg.Year, cfg.PeerCities); e != nil {
		return res, e
	}
	logger.Debug("brt costs", zap.Int("services", costs.RowCount()), zap.String("summary", costs.Column(ntd.CostPerHour).String()))

	if res.Agencies, e = ntd.AgencyCosts(costs); e != nil {
		return res, e
	}

	if res.National, e = costs.WeightedAverage(ntd.OperatingExpense, ntd.VehicleRevenueHours); e != nil {
		return res, e
	}

	if res.CV, e = costs.CoefficientOfVariation(ntd.CostPerHour); e != nil {
		return res, e
	}

	if peers, e = ntd.Peers(costs); e != nil {
		return res, e
	}
	res.PeerCount = peers.RowCount()

	if res.Peer, e = skipInsufficient(peers.WeightedAverage(ntd.OperatingExpense, ntd.VehicleRevenueHours)); e != nil {
		return res, e
	}

	logger.Info("brt cost per revenue hour", zap.Float64("national", res.National), zap.Float64("peer", res.Peer),
		zap.Int("peers", res.PeerCount), zap.Float64("cv", res.CV))

	return res, nil
}

// reporting counts the services with hours, and with expense, for year.
func reporting(svc, exp *tr.Table, year int) (services, expenses int, e error) {
	var (
		sr []ntd.ServiceRecord
		er []ntd.ExpenseRecord
	)
	if sr, e = ntd.ServiceRecords(svc, year); e != nil {
		return 0, 0, e
	}

	if er, e = ntd.ExpenseRecords(exp, year); e != nil {
		return 0, 0, e
	}

	for _, r := range sr {
		if !math.IsNaN(r.RevenueHours[year]) {
			services++
		}
	}

	for _, r := range er {
		if !math.IsNaN(r.OperatingExpense[year]) {
			expenses++
		}
	}

	return services, expenses, nil
}

// Columns of the estimates table.
const (
	estName  = "name"
	estCost  = "annual_cost"
	estHours = "revenue_hours"
	estRate  = "cost_per_hour"
)

func estimates(cfg *config.Config, bus *BRTResults, logger *zap.Logger) ([]EstimateResult, error) {
	if len(cfg.Estimates) == 0 {
		return nil, nil
	}

	var names []string
	var cost, hrs []float64
	for _, est := range cfg.Estimates {
		names = append(names, est.Name)
		cost = append(cost, est.AnnualCost)
		hrs = append(hrs, est.RevenueHours)
	}

	var (
		tab   *tr.Table
		rates []float64
		e     error
	)
	if tab, e = estimateTable(names, cost, hrs); e != nil {
		return nil, e
	}

	if tab, e = tab.DeriveRatio(estCost, estHours, estRate); e != nil {
		return nil, e
	}

	if rates, e = tab.Column(estRate).AsFloat(); e != nil {
		return nil, e
	}

	var out []EstimateResult
	for ind, est := range cfg.Estimates {
		r := EstimateResult{Name: est.Name, Years: est.Years, CostPerHour: rates[ind]}
		if r.BaseCostPerHour, e = tr.Inflate(r.CostPerHour, cfg.Inflation.Rate, est.Years, tr.Backward); e != nil {
			return nil, e
		}

		r.VsNational = r.BaseCostPerHour / bus.National
		r.VsPeer = r.BaseCostPerHour / bus.Peer

		logger.Info("estimate", zap.String("name", r.Name), zap.Float64("cost_per_hour", r.CostPerHour),
			zap.Float64("base_cost_per_hour", r.BaseCostPerHour), zap.Float64("vs_national", r.VsNational))
		out = append(out, r)
	}

	return out, nil
}

func estimateTable(names []string, cost, hrs []float64) (*tr.Table, error) {
	var (
		n, c, h *tr.Col
		e       error
	)
	if n, e = tr.NewCol(names, tr.DTstring, tr.ColName(estName)); e != nil {
		return nil, e
	}

	if c, e = tr.NewCol(cost, tr.DTfloat, tr.ColName(estCost)); e != nil {
		return nil, e
	}

	if h, e = tr.NewCol(hrs, tr.DTfloat, tr.ColName(estHours)); e != nil {
		return nil, e
	}

	return tr.NewTable(n, c, h)
}

func rail(cfg *config.Config, in *source.Inputs, logger *zap.Logger) (RailResults, *tr.Table, error) {
	res := RailResults{Mode: cfg.Rail.Mode}

	var (
		econ, peers *tr.Table
		e           error
	)
	if econ, e = ntd.Economics(in.Train, in.Expense, cfg.Year, cfg.Rail.Mode, cfg.PeerCities); e != nil {
		return res, nil, e
	}
	logger.Debug("rail economics", zap.Int("services", econ.RowCount()))

	if res.Services, e = ntd.JoinedEconomicsRecords(econ); e != nil {
		return res, nil, e
	}

	if res.TrainHourCost, e = econ.WeightedAverage(ntd.OperatingExpense, ntd.TrainRevenueHours); e != nil {
		return res, nil, e
	}

	if res.CarHourCost, e = econ.WeightedAverage(ntd.OperatingExpense, ntd.VehicleRevenueHours); e != nil {
		return res, nil, e
	}

	if res.CVTrain, e = econ.CoefficientOfVariation(ntd.TrainHourCost); e != nil {
		return res, nil, e
	}

	if res.CVCar, e = econ.CoefficientOfVariation(ntd.CarHourCost); e != nil {
		return res, nil, e
	}
	res.TrainLessDispersed = res.CVTrain < res.CVCar

	if peers, e = ntd.Peers(econ); e != nil {
		return res, nil, e
	}
	res.PeerCount = peers.RowCount()

	peerFigures := []struct {
		dest *float64
		fn   func() (float64, error)
	}{
		{&res.PeerTrainHourCost, func() (float64, error) {
			return peers.WeightedAverage(ntd.OperatingExpense, ntd.TrainRevenueHours)
		}},
		{&res.PeerCarHourCost, func() (float64, error) {
			return peers.WeightedAverage(ntd.OperatingExpense, ntd.VehicleRevenueHours)
		}},
		{&res.PeerCVTrain, func() (float64, error) { return peers.CoefficientOfVariation(ntd.TrainHourCost) }},
		{&res.PeerCVCar, func() (float64, error) { return peers.CoefficientOfVariation(ntd.CarHourCost) }},
	}

	for _, f := range peerFigures {
		if *f.dest, e = skipInsufficient(f.fn()); e != nil {
			return res, nil, e
		}
	}

	logger.Info("rail cost per revenue hour", zap.Float64("train", res.TrainHourCost), zap.Float64("car", res.CarHourCost),
		zap.Float64("cv_train", res.CVTrain), zap.Float64("cv_car", res.CVCar), zap.Bool("train_less_dispersed", res.TrainLessDispersed))

	return res, econ, nil
}

func regression(cfg *config.Config, econ *tr.Table, logger *zap.Logger) (*tr.RegressionResult, error) {
	reg := cfg.Regression
	cols := append([]string{reg.Dependent}, reg.Independent...)

	var (
		clean *tr.Table
		res   *tr.RegressionResult
		e     error
	)
	if clean, e = econ.DropNaN(cols...); e != nil {
		return nil, e
	}

	if res, e = clean.LinearRegression(reg.Dependent, reg.Independent...); e != nil {
		return nil, e
	}

	logger.Info("regression", zap.String("dependent", reg.Dependent), zap.Float64s("coefficients", res.Coefficients),
		zap.Float64("r_squared", res.RSquared), zap.Int("n", res.N))

	return res, nil
}

// ***************** Helpers *****************

// skipInsufficient turns an *InsufficientDataError into a NaN figure.
func skipInsufficient(x float64, e error) (float64, error) {
	var ie *tr.InsufficientDataError
	if errors.As(e, &ie) {
		return math.NaN(), nil
	}

	return x, e
}
