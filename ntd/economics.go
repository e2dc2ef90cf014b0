package ntd

import (
	"strings"

	tr "github.com/invertedv/transit"
)

// Costs joins service and expense extracts on (agency, mode, service type) and derives the
// cost per vehicle revenue hour of year. Callers restrict both tables to the services of
// interest first. Services missing either figure for year are dropped.
func Costs(service, expense *tr.Table, year int, peers []string) (*tr.Table, error) {
	var (
		hrs, opex, out *tr.Table
		e              error
	)
	if hrs, e = SelectYear(service, year, VehicleRevenueHours, AgencyName, City); e != nil {
		return nil, e
	}

	if opex, e = SelectYear(expense, year, OperatingExpense); e != nil {
		return nil, e
	}

	if out, e = hrs.Join(opex, AgencyID, Mode, ServiceType); e != nil {
		return nil, e
	}

	if out, e = out.DeriveRatio(OperatingExpense, VehicleRevenueHours, CostPerHour); e != nil {
		return nil, e
	}

	if e := flagPeers(out, peers); e != nil {
		return nil, e
	}

	return out, nil
}

// Economics builds the joined economics table of the rail services of mode. The train extract
// supplies train and vehicle revenue hours, the expense extract the operating expense of year.
// The two are joined on (agency, service type) after both are restricted to mode.
func Economics(train, expense *tr.Table, year int, mode string, peers []string) (*tr.Table, error) {
	var (
		trains, opex, out *tr.Table
		e                 error
	)
	if trains, e = train.Filter(Mode, mode); e != nil {
		return nil, e
	}

	if trains, e = trains.DropNaN(TrainRevenueHours, VehicleRevenueHours); e != nil {
		return nil, e
	}

	if trains, e = trains.DeriveDifference(VehicleRevenueHours, TrainRevenueHours, ExtraCarRevenueHours); e != nil {
		return nil, e
	}

	if trains, e = trains.DeriveRatio(VehicleRevenueHours, TrainRevenueHours, LoadFactor); e != nil {
		return nil, e
	}

	if opex, e = expense.Filter(Mode, mode); e != nil {
		return nil, e
	}

	if opex, e = SelectYear(opex, year, OperatingExpense); e != nil {
		return nil, e
	}

	// mode is constant on both sides after the filter
	if opex, e = opex.KeepColumns(AgencyID, ServiceType, OperatingExpense); e != nil {
		return nil, e
	}

	if out, e = trains.Join(opex, AgencyID, ServiceType); e != nil {
		return nil, e
	}

	if out, e = out.DeriveRatio(OperatingExpense, TrainRevenueHours, TrainHourCost); e != nil {
		return nil, e
	}

	if out, e = out.DeriveRatio(OperatingExpense, VehicleRevenueHours, CarHourCost); e != nil {
		return nil, e
	}

	if e := flagPeers(out, peers); e != nil {
		return nil, e
	}

	return out, nil
}

// Peers returns the rows of tab flagged as peers.
func Peers(tab *tr.Table) (*tr.Table, error) {
	return tab.Filter(Peer, 1)
}

// flagPeers appends the Peer column to tab: 1 where City is one of peers, else 0.
func flagPeers(tab *tr.Table, peers []string) error {
	col := tab.Column(City)
	if col == nil {
		return &tr.FormatError{Column: City, Msg: "column not found"}
	}

	flag := make([]int, tab.RowCount())
	for ind, city := range col.AsString() {
		for _, p := range peers {
			if strings.EqualFold(strings.TrimSpace(city), strings.TrimSpace(p)) {
				flag[ind] = 1
				break
			}
		}
	}

	var (
		pc *tr.Col
		e  error
	)
	if pc, e = tr.NewCol(flag, tr.DTint, tr.ColName(Peer)); e != nil {
		return e
	}

	return tab.AppendColumn(pc, false)
}
