package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/ryanuo/aug-calc/src/ledger"
	"github.com/ryanuo/aug-calc/src/utils"
	"github.com/ryanuo/aug-calc/src/utils/render"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

// Column names of the transactions frame, in sheet order.
const (
	ColID         = "ID"
	ColState      = "State"
	ColBuyTime    = "Buy Time"
	ColBuyWeight  = "Buy Weight"
	ColBuyPrice   = "Buy Price"
	ColBuyTotal   = "Buy Total"
	ColSellTime   = "Sell Time"
	ColSellWeight = "Sell Weight"
	ColSellPrice  = "Sell Price"
	ColSellTotal  = "Sell Total"
	ColFee        = "Fee"
	ColProfit     = "Profit"
)

type ReportServiceI interface {
	TransactionsDataframe(txs []ledger.Transaction) dataframe.DataFrame
	GenerateXLSXReport(ctx context.Context, txs []ledger.Transaction, summary ledger.Summary) (*excelize.File, error)
	GenerateChartHTML(ctx context.Context, txs []ledger.Transaction) ([]byte, error)
	GeneratePDFReport(ctx context.Context, txs []ledger.Transaction, summary ledger.Summary) ([]byte, error)
}

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// TransactionsDataframe lays the transactions out one per row, ordered by buy
// time. Sell columns are NaN for open positions.
func (rs *ReportService) TransactionsDataframe(txs []ledger.Transaction) dataframe.DataFrame {
	sorted := sortedByBuyTime(txs)

	n := len(sorted)
	ids := make([]string, n)
	states := make([]string, n)
	buyTimes := make([]string, n)
	sellTimes := make([]string, n)
	buyWeights, buyPrices, buyTotals := make([]float64, n), make([]float64, n), make([]float64, n)
	sellWeights, sellPrices, sellTotals := make([]float64, n), make([]float64, n), make([]float64, n)
	fees, profits := make([]float64, n), make([]float64, n)

	for i, tx := range sorted {
		record := tx.Record()
		ids[i] = record.ID
		states[i] = string(tx.State())
		buyTimes[i] = record.Buy.Time.UTC().Format(utils.TimestampLayout)
		buyWeights[i] = record.Buy.Weight
		buyPrices[i] = record.Buy.Price
		buyTotals[i] = record.Buy.TotalPrice
		if record.Sell == nil {
			sellWeights[i], sellPrices[i], sellTotals[i] = math.NaN(), math.NaN(), math.NaN()
			fees[i], profits[i] = math.NaN(), math.NaN()
			continue
		}
		sellTimes[i] = record.Sell.Time.UTC().Format(utils.TimestampLayout)
		sellWeights[i] = record.Sell.Weight
		sellPrices[i] = record.Sell.Price
		sellTotals[i] = record.Sell.TotalPrice
		fees[i] = record.Sell.Fee
		profits[i] = record.Sell.Profit
	}

	return dataframe.New(
		series.New(ids, series.String, ColID),
		series.New(states, series.String, ColState),
		series.New(buyTimes, series.String, ColBuyTime),
		series.New(buyWeights, series.Float, ColBuyWeight),
		series.New(buyPrices, series.Float, ColBuyPrice),
		series.New(buyTotals, series.Float, ColBuyTotal),
		series.New(sellTimes, series.String, ColSellTime),
		series.New(sellWeights, series.Float, ColSellWeight),
		series.New(sellPrices, series.Float, ColSellPrice),
		series.New(sellTotals, series.Float, ColSellTotal),
		series.New(fees, series.Float, ColFee),
		series.New(profits, series.Float, ColProfit),
	)
}

// GenerateXLSXReport writes a transactions sheet and a summary sheet.
func (rs *ReportService) GenerateXLSXReport(ctx context.Context, txs []ledger.Transaction, summary ledger.Summary) (*excelize.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return nil, err
	}
	df := rs.TransactionsDataframe(txs)
	if err := rs.writeDataframe(f, TransactionsSheet, &df); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if err := rs.writeSummary(f, summary); err != nil {
		return nil, err
	}

	if err := rs.applyHeaderStyle(f); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func (rs *ReportService) writeDataframe(f *excelize.File, sheetName string, df *dataframe.DataFrame) error {
	names := df.Names()
	for colIndex, name := range names {
		cell, err := excelize.CoordinatesToCellName(colIndex+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for colIndex, name := range names {
		col := df.Col(name)
		floats := col.Type() == series.Float
		values := col.Records()
		numbers := col.Float()
		for rowIndex := range values {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return err
			}
			if !floats {
				if values[rowIndex] == "" {
					continue
				}
				if err := f.SetCellValue(sheetName, cell, values[rowIndex]); err != nil {
					return err
				}
				continue
			}
			if math.IsNaN(numbers[rowIndex]) {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, numbers[rowIndex]); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, cell, cell, moneyStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func summaryRows(summary ledger.Summary) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Open positions", summary.OpenCount},
		{"Closed positions", summary.ClosedCount},
		{"Open weight", summary.OpenWeight},
		{"Open cost", summary.OpenCost},
		{"Realized profit", summary.RealizedProfit},
		{"Fees paid", summary.FeesPaid},
	}
	if summary.MarkPrice > 0 {
		rows = append(rows,
			[]interface{}{"Mark price", summary.MarkPrice},
			[]interface{}{"Market value", summary.MarketValue},
			[]interface{}{"Unrealized profit", summary.UnrealizedProfit},
		)
	}
	return rows
}

func (rs *ReportService) writeSummary(f *excelize.File, summary ledger.Summary) error {
	for i, row := range summaryRows(summary) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (rs *ReportService) applyHeaderStyle(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	for _, sheetName := range f.GetSheetList() {
		cols, err := f.GetCols(sheetName)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			continue
		}
		lastCol, err := excelize.ColumnNumberToName(len(cols))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
			return err
		}
	}
	return nil
}

// GenerateChartHTML renders buy and sell prices per position and the running
// realized profit as a standalone HTML page.
func (rs *ReportService) GenerateChartHTML(ctx context.Context, txs []ledger.Transaction) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sorted := sortedByBuyTime(txs)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithAnimation(false),
		charts.WithTitleOpts(opts.Title{Title: "Gold positions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1100px",
			Height: "600px",
		}),
	)

	labels := make([]string, 0, len(sorted))
	buys := make([]opts.LineData, 0, len(sorted))
	sells := make([]opts.LineData, 0, len(sorted))
	realized := make([]opts.LineData, 0, len(sorted))
	running := 0.0
	for _, tx := range sorted {
		record := tx.Record()
		labels = append(labels, record.Buy.Time.UTC().Format(time.DateOnly))
		buys = append(buys, opts.LineData{Name: record.ID, Value: record.Buy.Price})
		if record.Sell == nil {
			// echarts leaves "-" points empty
			sells = append(sells, opts.LineData{Name: record.ID, Value: "-"})
		} else {
			running = utils.Round(running + record.Sell.Profit)
			sells = append(sells, opts.LineData{Name: record.ID, Value: record.Sell.Price})
		}
		realized = append(realized, opts.LineData{Name: record.ID, Value: running})
	}

	line.SetXAxis(labels).
		AddSeries("Buy price", buys).
		AddSeries("Sell price", sells).
		AddSeries("Realized profit", realized,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.2}),
		)

	var buffer bytes.Buffer
	if err := line.Render(&buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart HTML: %w", err)
	}
	return buffer.Bytes(), nil
}

// ReportPages returns the HTML documents of the PDF report: the transactions
// table, the summary table and the chart.
func (rs *ReportService) ReportPages(ctx context.Context, txs []ledger.Transaction, summary ledger.Summary) ([]string, error) {
	df := rs.TransactionsDataframe(txs)
	transactionsPage, err := render.TableHTML("Gold transactions", &df)
	if err != nil {
		return nil, fmt.Errorf("failed to render transactions table: %w", err)
	}

	rows := summaryRows(summary)[1:]
	metrics := make([]string, len(rows))
	values := make([]string, len(rows))
	for i, row := range rows {
		metrics[i] = row[0].(string)
		switch v := row[1].(type) {
		case int:
			values[i] = strconv.Itoa(v)
		case float64:
			values[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	summaryDF := dataframe.New(
		series.New(metrics, series.String, "Metric"),
		series.New(values, series.String, "Value"),
	)
	summaryPage, err := render.TableHTML("Summary", &summaryDF)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary table: %w", err)
	}

	chart, err := rs.GenerateChartHTML(ctx, txs)
	if err != nil {
		return nil, err
	}
	return []string{transactionsPage, summaryPage, string(chart)}, nil
}

// GeneratePDFReport renders ReportPages to PDF with wkhtmltopdf.
func (rs *ReportService) GeneratePDFReport(ctx context.Context, txs []ledger.Transaction, summary ledger.Summary) ([]byte, error) {
	pages, err := rs.ReportPages(ctx, txs, summary)
	if err != nil {
		return nil, err
	}
	return render.GeneratePDF(ctx, pages)
}

func sortedByBuyTime(txs []ledger.Transaction) []ledger.Transaction {
	sorted := make([]ledger.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BuyLeg().Time.Before(sorted[j].BuyLeg().Time)
	})
	return sorted
}
