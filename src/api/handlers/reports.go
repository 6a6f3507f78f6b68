package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ryanuo/aug-calc/src/utils"
)

// ExportTransactions is the HTTP handler to generate an Excel file
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	markPrice, err := queryFloat(r, "markPrice")
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	xlsxFile, err := h.Controller.GenerateXLSXReport(ctx, markPrice)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	defer xlsxFile.Close()

	w.Header().Set("Content-Type", utils.XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=gold-transactions.xlsx")
	w.WriteHeader(http.StatusOK)
	if err := xlsxFile.Write(w); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("failed to write xlsx")
	}
}

// ExportTransactionsPDF streams the PDF report.
func (h *Handler) ExportTransactionsPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	markPrice, err := queryFloat(r, "markPrice")
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	pdfData, err := h.Controller.GeneratePDFReport(ctx, markPrice)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=gold-transactions.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfData)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfData); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("failed to write pdf")
	}
}

func (h *Handler) GetTransactionsChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := h.Controller.GenerateChartHTML(ctx)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
