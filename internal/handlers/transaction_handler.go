package handlers

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"subscription-tracker/internal/dto"
	"subscription-tracker/internal/errors"
	"subscription-tracker/internal/importer"
	"subscription-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = services.DefaultTransactionPageSize
	importFormField  = "file"
)

// TransactionHandler handles transaction listing and CSV import
type TransactionHandler struct {
	importService  services.ImportServiceInterface
	maxUploadBytes int64
}

// NewTransactionHandler creates a new transaction handler. Uploads larger than
// maxUploadBytes are rejected.
func NewTransactionHandler(importService services.ImportServiceInterface, maxUploadBytes int64) *TransactionHandler {
	return &TransactionHandler{
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListTransactions returns transactions newest first
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 100)"
// @Success 200 {object} dto.TransactionListResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	var query dto.PaginationQuery
	if ok, err := bindAndValidate(c, &query); !ok {
		return err
	}
	if query.Limit == 0 {
		query.Limit = defaultPageLimit
	}

	transactions, total, err := h.importService.ListTransactions(c.Request().Context(), query.Skip, query.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Skip:         query.Skip,
		Limit:        query.Limit,
	})
}

// ImportTransactions ingests a CSV upload and runs subscription detection over it
// @Summary Import transactions
// @Tags Transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with date, description and amount columns"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} errors.ErrorResponse "IMPORT_001..IMPORT_004 - Missing, wrong type or malformed CSV"
// @Failure 413 {object} errors.ErrorResponse "IMPORT_005 - File too large"
// @Router /transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		return SendError(c, errors.ImportMissingFile)
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return SendError(c, errors.ImportInvalidFileType)
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return SendError(c, errors.ImportFileTooLarge,
			errors.WithDetails(fmt.Sprintf("maximum size is %d bytes", h.maxUploadBytes)))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return SendSystemError(c, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes)
	}

	summary, err := h.importService.ImportCSV(c.Request().Context(), reader)
	if err != nil {
		switch {
		case stderrors.Is(err, importer.ErrMissingColumns):
			return SendError(c, errors.ImportMissingColumns)
		case stderrors.Is(err, importer.ErrEmptyFile), stderrors.Is(err, importer.ErrMalformedCSV):
			return SendError(c, errors.ImportMalformedCSV, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewImportResponse(summary))
}
