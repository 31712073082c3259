package http

import (
	"github.com/shopspring/decimal"

	"varlik/internal/core"
)

// reportData models the aggregate report partial: growth charts for the
// main and pension partitions, one detail card per saved date, and the
// date list feeding the delete picker.
type reportData struct {
	LoadFailed bool
	HasRows    bool

	MainChart    chartView
	PensionChart chartView
	Cards        []cardView
	Dates        []string
}

type chartView struct {
	Title string
	Bars  []seriesBar
}

type seriesBar struct {
	Label string
	TL    string
	USD   string
	Width int
}

type cardView struct {
	Header     string
	TotalTL    string
	TotalUSD   string
	Rate       string
	HasPension bool
	PensionTL  string
	PensionUSD string
	Lines      []cardLineView
}

type cardLineView struct {
	Name      string
	TL        string
	Width     int
	Color     string
	TextColor string
}

func buildReportData(rows []core.LedgerRow) reportData {
	data := reportData{HasRows: len(rows) > 0}
	if !data.HasRows {
		return data
	}

	main, pension := core.SplitPension(rows)
	data.MainChart = buildChart("Total Assets (₺)", core.TotalSeries(main))
	data.PensionChart = buildChart("BES (₺)", core.TotalSeries(pension))
	data.Cards = buildCards(rows)

	for _, d := range core.Dates(rows) {
		data.Dates = append(data.Dates, d.String())
	}
	reverseStrings(data.Dates)

	return data
}

func buildChart(title string, series []core.SeriesPoint) chartView {
	chart := chartView{Title: title}

	var max decimal.Decimal
	for _, p := range series {
		if p.TL.GreaterThan(max) {
			max = p.TL
		}
	}
	for _, p := range series {
		chart.Bars = append(chart.Bars, seriesBar{
			Label: p.Date.Format("Jan 2006"),
			TL:    formatTL(p.TL),
			USD:   formatUSD(p.USD),
			Width: barWidth(p.TL, max),
		})
	}
	return chart
}

// buildCards renders month cards newest first, with line bars scaled to
// the largest line on each card.
func buildCards(rows []core.LedgerRow) []cardView {
	cards := core.BuildMonthCards(rows)

	out := make([]cardView, 0, len(cards))
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		view := cardView{
			Header:     c.Header,
			TotalTL:    formatTL(c.TotalTL),
			TotalUSD:   formatUSD(c.TotalUSD),
			Rate:       formatRate(c.Rate),
			HasPension: c.HasPension,
		}
		if c.HasPension {
			view.PensionTL = formatTL(c.PensionTL)
			view.PensionUSD = formatUSD(c.PensionUSD)
		}

		var max decimal.Decimal
		for _, line := range c.Lines {
			if line.TLAmount.GreaterThan(max) {
				max = line.TLAmount
			}
		}
		for _, line := range c.Lines {
			color := core.ColorFor(line.Institution)
			view.Lines = append(view.Lines, cardLineView{
				Name:      line.Institution,
				TL:        formatTL(line.TLAmount),
				Width:     barWidth(line.TLAmount, max),
				Color:     color,
				TextColor: textColorOn(color),
			})
		}
		out = append(out, view)
	}
	return out
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
