// Package ntd describes the National Transit Database extracts the analysis reads: their column
// names, how they are loaded and checked, and the train economics derived from them.
package ntd

import (
	"fmt"
	"strconv"

	tr "github.com/invertedv/transit"
)

// Column names shared by the extracts.
const (
	AgencyID    = "agency_id"
	AgencyName  = "agency_name"
	City        = "city"
	Mode        = tr.ModeCol
	ServiceType = "service_type"
	Status      = tr.StatusCol

	TrainRevenueHours   = "train_revenue_hours"
	VehicleRevenueHours = "vehicle_revenue_hours"
	OperatingExpense    = "opex"
)

// Derived column names.
const (
	ExtraCarRevenueHours = "extra_car_revenue_hours"
	LoadFactor           = "load_factor"
	CostPerHour          = "cost_per_hour"
	TrainHourCost        = "train_revenue_hour_cost"
	CarHourCost          = "car_revenue_hour_cost"
	Peer                 = "peer"
)

// Kind identifies one of the three extracts.
type Kind int

const (
	// Service is vehicle revenue hours by agency and mode, one column per reporting year.
	Service Kind = 1 + iota
	// Expense is total operating expense by agency and mode, one column per reporting year.
	Expense
	// Train is train and vehicle revenue hours of rail services.
	Train
)

func (k Kind) String() string {
	switch k {
	case Service:
		return "service"
	case Expense:
		return "expense"
	case Train:
		return "train"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Required returns the columns an extract of kind k must have to report on year.
func (k Kind) Required(year int) []string {
	switch k {
	case Service:
		return []string{AgencyID, AgencyName, City, Mode, ServiceType, Status, YearColumn(year)}
	case Expense:
		return []string{AgencyID, Mode, ServiceType, YearColumn(year)}
	case Train:
		return []string{AgencyID, City, Mode, ServiceType, TrainRevenueHours, VehicleRevenueHours}
	}

	return nil
}

// YearColumn is the name of the per-year column for year.
func YearColumn(year int) string {
	return strconv.Itoa(year)
}

// fieldTypes are the types forced on CSV extracts. Agency IDs are kept as text so that leading
// zeros survive.
func fieldTypes(k Kind) map[string]tr.DataTypes {
	ft := map[string]tr.DataTypes{
		AgencyID:    tr.DTstring,
		Mode:        tr.DTstring,
		ServiceType: tr.DTstring,
	}

	switch k {
	case Service:
		ft[AgencyName], ft[City], ft[Status] = tr.DTstring, tr.DTstring, tr.DTstring
	case Train:
		ft[City] = tr.DTstring
		ft[TrainRevenueHours], ft[VehicleRevenueHours] = tr.DTfloat, tr.DTfloat
	}

	return ft
}

// Load reads the CSV extract fileName of kind k and checks it has what year needs.
func Load(fileName string, k Kind, year int) (*tr.Table, error) {
	var (
		f   *tr.Files
		tab *tr.Table
		e   error
	)
	if f, e = tr.NewFiles(tr.FileFieldTypes(fieldTypes(k))); e != nil {
		return nil, e
	}

	if tab, e = f.Load(fileName); e != nil {
		return nil, e
	}

	if e := Check(tab, k, year, fileName); e != nil {
		return nil, e
	}

	return tab, nil
}

// Check returns a *transit.FormatError naming the first column of k.Required(year) that tab lacks
// or that has the wrong type. source names tab in the error.
func Check(tab *tr.Table, k Kind, year int, source string) error {
	req := k.Required(year)
	if req == nil {
		return fmt.Errorf("unknown extract %s", k)
	}

	for _, nm := range req {
		col := tab.Column(nm)
		if col == nil {
			return &tr.FormatError{Source: source, Column: nm, Msg: fmt.Sprintf("%s extract requires this column", k)}
		}

		if numeric(nm, year) && !col.DataType().IsNumeric() {
			return &tr.FormatError{Source: source, Column: nm, Msg: fmt.Sprintf("must be numeric, is %s", col.DataType())}
		}
	}

	return nil
}

func numeric(colName string, year int) bool {
	return colName == YearColumn(year) || colName == TrainRevenueHours || colName == VehicleRevenueHours
}

// SelectYear returns the key columns of tab (agency, mode, service type), the columns in keep
// and the year column renamed to as. Rows missing the year are dropped.
func SelectYear(tab *tr.Table, year int, as string, keep ...string) (*tr.Table, error) {
	cols := append([]string{AgencyID, Mode, ServiceType}, keep...)

	var (
		out *tr.Table
		e   error
	)
	if out, e = tab.KeepColumns(append(cols, YearColumn(year))...); e != nil {
		return nil, e
	}

	if out, e = out.Rename(YearColumn(year), as); e != nil {
		return nil, e
	}

	return out.DropNaN(as)
}
