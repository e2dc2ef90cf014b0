package ntd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tr "github.com/invertedv/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brtInputs(t *testing.T) (svc, exp *tr.Table) {
	var e error
	svc, e = load(t, Service).FilterByModeAndStatus("RB", "Active")
	require.Nil(t, e)

	exp, e = load(t, Expense).Filter(Mode, "RB")
	require.Nil(t, e)

	return svc, exp
}

func TestCosts(t *testing.T) {
	svc, exp := brtInputs(t)
	assert.Equal(t, 12, svc.RowCount())

	costs, e := Costs(svc, exp, year, testPeers)
	require.Nil(t, e)
	assert.Equal(t, 11, costs.RowCount())

	wa, e := costs.WeightedAverage(OperatingExpense, VehicleRevenueHours)
	require.Nil(t, e)
	assert.InDelta(t, 171.1619, wa, 1e-4)

	peers, e := Peers(costs)
	require.Nil(t, e)
	assert.Equal(t, []string{"Seattle", "Los Angeles", "San Diego", "Oakland"}, peers.Column(City).AsString())

	pwa, e := peers.WeightedAverage(OperatingExpense, VehicleRevenueHours)
	require.Nil(t, e)
	assert.InDelta(t, 174.7220, pwa, 1e-4)

	cv, e := costs.CoefficientOfVariation(CostPerHour)
	require.Nil(t, e)
	assert.InDelta(t, 0.054743, cv, 1e-6)

	recs, e := AgencyCosts(costs)
	require.Nil(t, e)
	require.Len(t, recs, 11)
	assert.Equal(t, AgencyCost{
		AgencyID:     "00001",
		AgencyName:   "King County Metro Transit",
		City:         "Seattle",
		ServiceType:  "DO",
		Expense:      21904000,
		RevenueHours: 131000,
		CostPerHour:  21904000.0 / 131000.0,
		Peer:         true,
	}, recs[0])

	// inputs keep their columns
	assert.Nil(t, svc.Column(Peer))
	assert.Nil(t, exp.Column(OperatingExpense))
}

func TestCosts_ZeroHours(t *testing.T) {
	svc, exp := brtInputs(t)

	hrs := svc.Column(YearColumn(year)).Copy()
	require.Nil(t, hrs.SetFloat(0, 1))
	svc = svc.Copy()
	require.Nil(t, svc.AppendColumn(hrs, true))

	_, e := Costs(svc, exp, year, nil)
	var dz *tr.DivisionByZeroError
	require.True(t, errors.As(e, &dz))
	assert.Equal(t, VehicleRevenueHours, dz.Column)
}

func TestCosts_DuplicateKey(t *testing.T) {
	svc, _ := brtInputs(t)

	// King County reported twice
	fileName := filepath.Join(t.TempDir(), "expense.csv")
	contents := "agency_id,mode,service_type,2022\n00001,RB,DO,21904000\n10003,RB,DO,8391000\n00001,RB,DO,100\n"
	require.Nil(t, os.WriteFile(fileName, []byte(contents), 0o600))

	exp, e := Load(fileName, Expense, year)
	require.Nil(t, e)

	_, e = Costs(svc, exp, year, nil)
	var je *tr.JoinError
	require.True(t, errors.As(e, &je))
	assert.Equal(t, "right", je.Side)
	assert.Contains(t, je.Key, "00001")
}

func TestEconomics(t *testing.T) {
	econ, e := Economics(load(t, Train), load(t, Expense), year, "HR", testPeers)
	require.Nil(t, e)

	// PATCO has no expense row, Sound Transit is light rail
	assert.Equal(t, 9, econ.RowCount())
	for _, nm := range []string{ExtraCarRevenueHours, LoadFactor, OperatingExpense, TrainHourCost, CarHourCost, Peer} {
		assert.NotNil(t, econ.Column(nm), nm)
	}
	assert.Nil(t, econ.Column(Mode+"_right"))

	trainCost, e := econ.WeightedAverage(OperatingExpense, TrainRevenueHours)
	require.Nil(t, e)
	assert.InDelta(t, 2302.4316, trainCost, 1e-4)

	carCost, e := econ.WeightedAverage(OperatingExpense, VehicleRevenueHours)
	require.Nil(t, e)
	assert.InDelta(t, 313.6001, carCost, 1e-4)

	cvTrain, e := econ.CoefficientOfVariation(TrainHourCost)
	require.Nil(t, e)
	cvCar, e := econ.CoefficientOfVariation(CarHourCost)
	require.Nil(t, e)
	assert.InDelta(t, 0.206936, cvTrain, 1e-6)
	assert.InDelta(t, 0.263534, cvCar, 1e-6)

	recs, e := JoinedEconomicsRecords(econ)
	require.Nil(t, e)
	require.Len(t, recs, 9)

	nyc := recs[0]
	assert.Equal(t, "20008", nyc.AgencyID)
	assert.Equal(t, 9.0, nyc.LoadFactor())
	assert.Equal(t, 19200000.0, nyc.ExtraCarRevenueHours())
	assert.Equal(t, 6438240000.0/2400000.0, nyc.TrainHourCost)
	assert.Equal(t, 6438240000.0/21600000.0, nyc.CarHourCost)
	assert.False(t, nyc.Peer)

	var peers []string
	for _, r := range recs {
		if r.Peer {
			peers = append(peers, r.City)
		}
	}
	assert.Equal(t, []string{"Los Angeles", "Oakland"}, peers)

	res, e := econ.LinearRegression(OperatingExpense, TrainRevenueHours, ExtraCarRevenueHours)
	require.Nil(t, e)
	assert.InDelta(t, 1015.4633, res.Coefficients[1], 1e-3)
	assert.InDelta(t, 209.5011, res.Coefficients[2], 1e-3)
	assert.InDelta(t, 0.999889, res.RSquared, 1e-6)
}

func TestEconomics_NoRows(t *testing.T) {
	econ, e := Economics(load(t, Train), load(t, Expense), year, "CR", testPeers)
	require.Nil(t, e)
	assert.Equal(t, 0, econ.RowCount())

	_, e = econ.CoefficientOfVariation(TrainHourCost)
	var ie *tr.InsufficientDataError
	assert.True(t, errors.As(e, &ie))
}
