package ntd

import (
	"fmt"
	"math"

	tr "github.com/invertedv/transit"
)

// ServiceRecord is one row of the service extract.
type ServiceRecord struct {
	AgencyID    string
	AgencyName  string
	City        string
	Mode        string
	ServiceType string
	Status      string

	// RevenueHours holds vehicle revenue hours by reporting year; a missing year is NaN.
	RevenueHours map[int]float64
}

// ExpenseRecord is one row of the expense extract.
type ExpenseRecord struct {
	AgencyID    string
	Mode        string
	ServiceType string

	OperatingExpense map[int]float64
}

// TrainServiceRecord is one row of the train extract.
type TrainServiceRecord struct {
	AgencyID            string
	City                string
	Mode                string
	ServiceType         string
	TrainRevenueHours   float64
	VehicleRevenueHours float64
}

// ExtraCarRevenueHours is the car hours beyond the lead car of each train.
func (r TrainServiceRecord) ExtraCarRevenueHours() float64 {
	return r.VehicleRevenueHours - r.TrainRevenueHours
}

// LoadFactor is the average number of cars per train.
func (r TrainServiceRecord) LoadFactor() float64 {
	return r.VehicleRevenueHours / r.TrainRevenueHours
}

// JoinedEconomicsRecord is a rail service with its operating expense and unit costs.
type JoinedEconomicsRecord struct {
	TrainServiceRecord

	OperatingExpense float64
	TrainHourCost    float64
	CarHourCost      float64
	Peer             bool
}

// AgencyCost is the cost per vehicle revenue hour of one service.
type AgencyCost struct {
	AgencyID     string
	AgencyName   string
	City         string
	ServiceType  string
	Expense      float64
	RevenueHours float64
	CostPerHour  float64
	Peer         bool
}

// ***************** Extraction *****************

// reader pulls typed columns out of a table, failing on the first one that is absent.
type reader struct {
	tab *tr.Table
	e   error
}

func (r *reader) strings(colName string) []string {
	if r.e != nil {
		return nil
	}

	col := r.tab.Column(colName)
	if col == nil {
		r.e = &tr.FormatError{Column: colName, Msg: "column not found"}
		return nil
	}

	return col.AsString()
}

func (r *reader) floats(colName string) []float64 {
	if r.e != nil {
		return nil
	}

	col := r.tab.Column(colName)
	if col == nil {
		r.e = &tr.FormatError{Column: colName, Msg: "column not found"}
		return nil
	}

	var x []float64
	if x, r.e = col.AsFloat(); r.e != nil {
		r.e = fmt.Errorf("column %s: %w", colName, r.e)
	}

	return x
}

// flags reads an int column holding 0/1.
func (r *reader) flags(colName string) []bool {
	x := r.floats(colName)
	if x == nil {
		return nil
	}

	out := make([]bool, len(x))
	for ind, xv := range x {
		out[ind] = xv != 0
	}

	return out
}

// byYear reads the per-year columns of years. Years the table does not carry are NaN.
func (r *reader) byYear(years []int) []map[int]float64 {
	out := make([]map[int]float64, r.tab.RowCount())
	for ind := range out {
		out[ind] = make(map[int]float64)
	}

	for _, yr := range years {
		var x []float64
		if r.tab.Column(YearColumn(yr)) != nil {
			x = r.floats(YearColumn(yr))
		}

		for ind := range out {
			v := math.NaN()
			if x != nil {
				v = x[ind]
			}
			out[ind][yr] = v
		}
	}

	return out
}

// ServiceRecords extracts the rows of a service table with revenue hours for years.
func ServiceRecords(tab *tr.Table, years ...int) ([]ServiceRecord, error) {
	r := &reader{tab: tab}
	id, name, city := r.strings(AgencyID), r.strings(AgencyName), r.strings(City)
	mode, tos, status := r.strings(Mode), r.strings(ServiceType), r.strings(Status)
	hours := r.byYear(years)
	if r.e != nil {
		return nil, r.e
	}

	recs := make([]ServiceRecord, tab.RowCount())
	for ind := range recs {
		recs[ind] = ServiceRecord{
			AgencyID:     id[ind],
			AgencyName:   name[ind],
			City:         city[ind],
			Mode:         mode[ind],
			ServiceType:  tos[ind],
			Status:       status[ind],
			RevenueHours: hours[ind],
		}
	}

	return recs, nil
}

// ExpenseRecords extracts the rows of an expense table with expenses for years.
func ExpenseRecords(tab *tr.Table, years ...int) ([]ExpenseRecord, error) {
	r := &reader{tab: tab}
	id, mode, tos := r.strings(AgencyID), r.strings(Mode), r.strings(ServiceType)
	opex := r.byYear(years)
	if r.e != nil {
		return nil, r.e
	}

	recs := make([]ExpenseRecord, tab.RowCount())
	for ind := range recs {
		recs[ind] = ExpenseRecord{
			AgencyID:         id[ind],
			Mode:             mode[ind],
			ServiceType:      tos[ind],
			OperatingExpense: opex[ind],
		}
	}

	return recs, nil
}

// TrainServiceRecords extracts the rows of a train table.
func TrainServiceRecords(tab *tr.Table) ([]TrainServiceRecord, error) {
	r := &reader{tab: tab}
	recs := trainServiceRecords(r)
	if r.e != nil {
		return nil, r.e
	}

	return recs, nil
}

func trainServiceRecords(r *reader) []TrainServiceRecord {
	id, city, mode, tos := r.strings(AgencyID), r.strings(City), r.strings(Mode), r.strings(ServiceType)
	trainHrs, vehHrs := r.floats(TrainRevenueHours), r.floats(VehicleRevenueHours)
	if r.e != nil {
		return nil
	}

	recs := make([]TrainServiceRecord, r.tab.RowCount())
	for ind := range recs {
		recs[ind] = TrainServiceRecord{
			AgencyID:            id[ind],
			City:                city[ind],
			Mode:                mode[ind],
			ServiceType:         tos[ind],
			TrainRevenueHours:   trainHrs[ind],
			VehicleRevenueHours: vehHrs[ind],
		}
	}

	return recs
}

// JoinedEconomicsRecords extracts the rows of a table built by Economics.
func JoinedEconomicsRecords(tab *tr.Table) ([]JoinedEconomicsRecord, error) {
	r := &reader{tab: tab}
	trains := trainServiceRecords(r)
	opex, trainCost, carCost := r.floats(OperatingExpense), r.floats(TrainHourCost), r.floats(CarHourCost)
	peer := r.flags(Peer)
	if r.e != nil {
		return nil, r.e
	}

	recs := make([]JoinedEconomicsRecord, len(trains))
	for ind := range recs {
		recs[ind] = JoinedEconomicsRecord{
			TrainServiceRecord: trains[ind],
			OperatingExpense:   opex[ind],
			TrainHourCost:      trainCost[ind],
			CarHourCost:        carCost[ind],
			Peer:               peer[ind],
		}
	}

	return recs, nil
}

// AgencyCosts extracts the rows of a table built by Costs.
func AgencyCosts(tab *tr.Table) ([]AgencyCost, error) {
	r := &reader{tab: tab}
	id, name, city, tos := r.strings(AgencyID), r.strings(AgencyName), r.strings(City), r.strings(ServiceType)
	opex, hrs, cost := r.floats(OperatingExpense), r.floats(VehicleRevenueHours), r.floats(CostPerHour)
	peer := r.flags(Peer)
	if r.e != nil {
		return nil, r.e
	}

	recs := make([]AgencyCost, tab.RowCount())
	for ind := range recs {
		recs[ind] = AgencyCost{
			AgencyID:     id[ind],
			AgencyName:   name[ind],
			City:         city[ind],
			ServiceType:  tos[ind],
			Expense:      opex[ind],
			RevenueHours: hrs[ind],
			CostPerHour:  cost[ind],
			Peer:         peer[ind],
		}
	}

	return recs, nil
}
