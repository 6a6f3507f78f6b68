package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrPDFUnavailable is returned when no wkhtmltopdf binary can be found.
var ErrPDFUnavailable = errors.New("pdf rendering is unavailable")

var tableTemplate = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 24px; }
h1 { font-size: 18px; }
table { border-collapse: collapse; width: 100%; font-size: 10px; }
th { background: #E6E6E6; }
th, td { border: 1px solid #BBBBBB; padding: 4px 6px; text-align: right; }
td:first-child, th:first-child { text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
</body>
</html>`))

// TableHTML renders df as a titled HTML page. NaN cells are left blank.
func TableHTML(title string, df *dataframe.DataFrame) (string, error) {
	if df.Err != nil {
		return "", df.Err
	}
	names := df.Names()
	rows := make([][]string, df.Nrow())
	for i := range rows {
		rows[i] = make([]string, len(names))
	}
	for colIndex, name := range names {
		col := df.Col(name)
		if col.Type() != series.Float {
			for rowIndex, value := range col.Records() {
				rows[rowIndex][colIndex] = value
			}
			continue
		}
		for rowIndex, value := range col.Float() {
			if math.IsNaN(value) {
				continue
			}
			rows[rowIndex][colIndex] = strconv.FormatFloat(value, 'f', -1, 64)
		}
	}

	var output bytes.Buffer
	err := tableTemplate.Execute(&output, struct {
		Title   string
		Headers []string
		Rows    [][]string
	}{title, names, rows})
	if err != nil {
		return "", err
	}
	return output.String(), nil
}

// GeneratePDF renders each HTML document as a page of one A4 PDF.
func GeneratePDF(ctx context.Context, htmlContents []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFUnavailable, err)
	}

	for _, html := range htmlContents {
		page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(html)))
		// chart pages pull their scripts from a CDN that may be unreachable
		page.LoadErrorHandling.Set("ignore")
		page.LoadMediaErrorHandling.Set("ignore")
		pdfg.AddPage(page)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pdfg.Bytes(), nil
}
