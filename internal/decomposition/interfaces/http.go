package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"fuelswitch/internal/auth"
	"fuelswitch/internal/decomposition/application"
	decomposition "fuelswitch/internal/decomposition/domain"
	"fuelswitch/internal/ingest"
	"fuelswitch/internal/observability/metrics"
)

// RunStore is the persistence port used by the handlers.
type RunStore interface {
	SaveRun(ctx context.Context, run application.RunInfo, rows []decomposition.OutputRow, report []application.ErrorRecord) error
	GetRun(ctx context.Context, id string) (*application.RunInfo, error)
	ListRows(ctx context.Context, runID string) ([]decomposition.OutputRow, error)
	ListErrors(ctx context.Context, runID string) ([]application.ErrorRecord, error)
}

// Clock provides run timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// RunsHandler handles decomposition run APIs under /api/v1/decomposition.
type RunsHandler struct {
	runner *application.Runner
	store  RunStore
	logger *log.Logger
	clock  Clock
}

// NewRunsHandler constructs a RunsHandler.
func NewRunsHandler(runner *application.Runner, store RunStore, logger *log.Logger) (*RunsHandler, error) {
	if runner == nil {
		return nil, errors.New("runs handler: nil runner")
	}
	if store == nil {
		return nil, errors.New("runs handler: nil store")
	}
	return &RunsHandler{runner: runner, store: store, logger: logger, clock: systemClock{}}, nil
}

// ServeHTTP handles run routes.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/decomposition/runs" && r.Method == http.MethodPost {
		h.handleCreate(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/decomposition/runs/") && r.Method == http.MethodGet {
		id := strings.TrimPrefix(path, "/api/v1/decomposition/runs/")
		if id != "" && !strings.Contains(id, "/") {
			h.handleGet(w, r, id)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

type runResponse struct {
	RunID          string                    `json:"run_id"`
	CreatedAt      time.Time                 `json:"created_at"`
	CellsProcessed int                       `json:"cells_processed"`
	CellsFailed    int                       `json:"cells_failed"`
	RowCount       int                       `json:"row_count"`
	Totals         map[string]float64        `json:"totals,omitempty"`
	Errors         []application.ErrorRecord `json:"errors,omitempty"`
}

func (h *RunsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Workbook      string `json:"workbook"`
		EnergyCSV     string `json:"energy_csv"`
		ProductionCSV string `json:"production_csv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	dataset, err := loadDataset(req.Workbook, req.EnergyCSV, req.ProductionCSV)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.runner.Run(r.Context(), dataset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	now := h.clock.Now()
	run := application.RunInfo{
		ID:             newRunID(now),
		CreatedAt:      now,
		CellsProcessed: result.CellsProcessed,
		CellsFailed:    result.CellsFailed,
		RowCount:       len(result.Rows),
	}
	if err := h.store.SaveRun(r.Context(), run, result.Rows, result.ErrorRecords()); err != nil {
		if h.logger != nil {
			h.logger.Printf("save run %s: %v", run.ID, err)
		}
		http.Error(w, "failed to persist run", http.StatusInternalServerError)
		return
	}
	if h.logger != nil {
		if subject := auth.SubjectFromContext(r.Context()); subject != "" {
			h.logger.Printf("run %s created by %s", run.ID, subject)
		}
	}

	totals := make(map[string]float64, len(result.TotalsByEntry))
	for entry, value := range result.TotalsByEntry {
		totals[string(entry)] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(runResponse{
		RunID:          run.ID,
		CreatedAt:      run.CreatedAt,
		CellsProcessed: run.CellsProcessed,
		CellsFailed:    run.CellsFailed,
		RowCount:       run.RowCount,
		Totals:         totals,
		Errors:         result.ErrorRecords(),
	})
}

func (h *RunsHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	report, err := h.store.ListErrors(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runResponse{
		RunID:          run.ID,
		CreatedAt:      run.CreatedAt,
		CellsProcessed: run.CellsProcessed,
		CellsFailed:    run.CellsFailed,
		RowCount:       run.RowCount,
		Errors:         report,
	})
}

var runSeq atomic.Uint64

// newRunID builds a unique run identifier. The sequence number keeps ids
// distinct when concurrent requests observe the same clock reading.
func newRunID(now time.Time) string {
	return fmt.Sprintf("run-%d-%d", now.UnixNano(), runSeq.Add(1))
}

func loadDataset(workbook, energyCSV, productionCSV string) (ingest.Dataset, error) {
	if workbook != "" {
		file, err := os.Open(workbook)
		if err != nil {
			return ingest.Dataset{}, fmt.Errorf("open workbook: %w", err)
		}
		defer file.Close()
		return ingest.ReadWorkbook(file)
	}
	if energyCSV == "" {
		return ingest.Dataset{}, errors.New("workbook or energy_csv required")
	}

	dataset := ingest.Dataset{}
	energyFile, err := os.Open(energyCSV)
	if err != nil {
		return ingest.Dataset{}, fmt.Errorf("open energy csv: %w", err)
	}
	defer energyFile.Close()
	dataset.Energy, err = ingest.ReadEnergyCSV(energyFile)
	if err != nil {
		return ingest.Dataset{}, err
	}

	if productionCSV != "" {
		productionFile, err := os.Open(productionCSV)
		if err != nil {
			return ingest.Dataset{}, fmt.Errorf("open production csv: %w", err)
		}
		defer productionFile.Close()
		dataset.Production, err = ingest.ReadProductionCSV(productionFile)
		if err != nil {
			return ingest.Dataset{}, err
		}
	}
	return dataset, nil
}

// ExportHandler serves run exports under /api/v1/exports.
type ExportHandler struct {
	store RunStore
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(store RunStore) (*ExportHandler, error) {
	if store == nil {
		return nil, errors.New("export handler: nil store")
	}
	return &ExportHandler{store: store}, nil
}

// ServeHTTP handles GET /api/v1/exports/fuel-switching.{csv,xlsx,pdf}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := strings.TrimPrefix(r.URL.Path, "/api/v1/exports/fuel-switching.")
	runID := r.URL.Query().Get("run")
	if runID == "" {
		http.Error(w, "run query parameter required", http.StatusBadRequest)
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	rows, err := h.store.ListRows(r.Context(), runID)
	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		http.Error(w, "failed to load rows", http.StatusInternalServerError)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="fuel-switching.csv"`)
		if err := WriteRowsCSV(w, rows); err != nil {
			metrics.IncExport(format, metrics.ResultError)
			return
		}
	case "xlsx":
		data, err := BuildRowsXLSX(rows)
		if err != nil {
			metrics.IncExport(format, metrics.ResultError)
			http.Error(w, "failed to build xlsx", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="fuel-switching.xlsx"`)
		_, _ = w.Write(data)
	case "pdf":
		report, err := h.store.ListErrors(r.Context(), runID)
		if err != nil {
			metrics.IncExport(format, metrics.ResultError)
			http.Error(w, "failed to load report", http.StatusInternalServerError)
			return
		}
		totals := make(map[decomposition.EntryType]float64)
		for _, row := range rows {
			totals[row.EntryType] += row.Value
		}
		data, err := BuildRunSummaryPDF(RunSummary{
			ID:             run.ID,
			CreatedAt:      run.CreatedAt,
			CellsProcessed: run.CellsProcessed,
			CellsFailed:    run.CellsFailed,
			RowCount:       run.RowCount,
			TotalsByEntry:  totals,
		}, report)
		if err != nil {
			metrics.IncExport(format, metrics.ResultError)
			http.Error(w, "failed to build pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="fuel-switching.pdf"`)
		_, _ = w.Write(data)
	default:
		http.Error(w, "unknown export format", http.StatusNotFound)
		return
	}
	metrics.IncExport(format, metrics.ResultSuccess)
}
