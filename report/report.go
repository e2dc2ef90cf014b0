// Package report renders analysis results as text.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	tr "github.com/invertedv/transit"
	"github.com/invertedv/transit/analysis"
)

// Write prints res to w.
func Write(w io.Writer, res *analysis.Results) error {
	var b strings.Builder

	fmt.Fprintf(&b, "NTD %d revenue-hour costs (run %s)\n\n", res.Year, res.RunID)
	brt(&b, &res.BRT)
	estimates(&b, res.Estimates, res.InflationRate)
	rail(&b, &res.Rail)

	if res.Regression != nil {
		section(&b, "Regression")
		b.WriteString(res.Regression.String())
	}

	_, e := io.WriteString(w, b.String())

	return e
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func brt(b *strings.Builder, r *analysis.BRTResults) {
	section(b, fmt.Sprintf("Bus rapid transit (mode %s, status %s)", r.Mode, r.Status))
	fmt.Fprintf(b, "services reporting hours: %d, expense: %d, matched: %d\n", r.Services, r.Expenses, len(r.Agencies))
	fmt.Fprintf(b, "national cost per vehicle revenue hour: %s\n", Money(r.National))
	fmt.Fprintf(b, "peer cost per vehicle revenue hour:     %s (%d services)\n", Money(r.Peer), r.PeerCount)
	fmt.Fprintf(b, "coefficient of variation:               %s\n\n", Ratio(r.CV))

	var name, city, hrs, opex, cost, peer []string
	for _, a := range r.Agencies {
		name = append(name, a.AgencyName)
		city = append(city, a.City)
		hrs = append(hrs, humanize.Comma(int64(math.Round(a.RevenueHours))))
		opex = append(opex, Money(a.Expense))
		cost = append(cost, Money(a.CostPerHour))
		peer = append(peer, flag(a.Peer))
	}

	if name != nil {
		header := []string{"agency", "city", "revenue hours", "expense", "cost/hour", "peer"}
		b.WriteString(tr.PrettyPrint(header, name, city, hrs, opex, cost, peer))
	}
	b.WriteString("\n")
}

func estimates(b *strings.Builder, ests []analysis.EstimateResult, rate float64) {
	if len(ests) == 0 {
		return
	}

	section(b, fmt.Sprintf("Published estimates (deflated at %s a year)", Percent(rate)))

	var name, cost, years, base, vsNat, vsPeer []string
	for _, est := range ests {
		name = append(name, est.Name)
		cost = append(cost, Money(est.CostPerHour))
		years = append(years, humanize.Ftoa(est.Years))
		base = append(base, Money(est.BaseCostPerHour))
		vsNat = append(vsNat, Ratio(est.VsNational))
		vsPeer = append(vsPeer, Ratio(est.VsPeer))
	}

	header := []string{"estimate", "cost/hour", "years", "base-year cost/hour", "vs national", "vs peer"}
	b.WriteString(tr.PrettyPrint(header, name, cost, years, base, vsNat, vsPeer))
	b.WriteString("\n")
}

func rail(b *strings.Builder, r *analysis.RailResults) {
	section(b, fmt.Sprintf("Rail (mode %s)", r.Mode))

	var name, city, load, trainCost, carCost, peer []string
	for _, s := range r.Services {
		name = append(name, s.AgencyID)
		city = append(city, s.City)
		load = append(load, Ratio(s.LoadFactor()))
		trainCost = append(trainCost, Money(s.TrainHourCost))
		carCost = append(carCost, Money(s.CarHourCost))
		peer = append(peer, flag(s.Peer))
	}

	if name != nil {
		header := []string{"agency", "city", "load factor", "cost/train hour", "cost/car hour", "peer"}
		b.WriteString(tr.PrettyPrint(header, name, city, load, trainCost, carCost, peer))
		b.WriteString("\n")
	}

	header := []string{"", "cost/train hour", "cost/car hour", "cv train", "cv car"}
	rows := []string{"all", fmt.Sprintf("peers (%d)", r.PeerCount)}
	b.WriteString(tr.PrettyPrint(header, rows,
		[]string{Money(r.TrainHourCost), Money(r.PeerTrainHourCost)},
		[]string{Money(r.CarHourCost), Money(r.PeerCarHourCost)},
		[]string{Ratio(r.CVTrain), Ratio(r.PeerCVTrain)},
		[]string{Ratio(r.CVCar), Ratio(r.PeerCVCar)}))

	if r.TrainLessDispersed {
		b.WriteString("cost per train hour is less dispersed than cost per car hour\n\n")
		return
	}
	b.WriteString("cost per train hour is not less dispersed than cost per car hour\n\n")
}

// ***************** Formatting *****************

const na = "n/a"

// Money formats x as dollars and cents.
func Money(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return na
	}

	if x < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -x)
	}

	return "$" + humanize.FormatFloat("#,###.##", x)
}

// Ratio formats x to three decimals.
func Ratio(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return na
	}

	return fmt.Sprintf("%.3f", x)
}

// Percent formats a rate such as 0.03 as "3.0%".
func Percent(x float64) string {
	return fmt.Sprintf("%.1f%%", 100*x)
}

func flag(b bool) string {
	if b {
		return "yes"
	}

	return ""
}
