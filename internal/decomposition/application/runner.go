package application

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"fuelswitch/internal/baseline"
	decomposition "fuelswitch/internal/decomposition/domain"
	"fuelswitch/internal/grouping"
	"fuelswitch/internal/ingest"
	"fuelswitch/internal/observability/metrics"
)

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers overrides the worker count.
func WithWorkers(workers int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// Runner executes decomposition runs: it tags input rows, assembles cells,
// fans the cells out across workers and collects rows and cell errors.
type Runner struct {
	grouper    *grouping.Grouper
	builder    baseline.Builder
	allocator  decomposition.Allocator
	classifier decomposition.Classifier
	workers    int
	logger     *log.Logger
}

// NewRunner constructs a Runner from the read-only configuration.
func NewRunner(grouper *grouping.Grouper, cfg grouping.Config, opts ...Option) (*Runner, error) {
	if grouper == nil {
		return nil, errors.New("runner: nil grouper")
	}
	runner := &Runner{
		grouper:    grouper,
		builder:    baseline.NewBuilder(),
		allocator:  decomposition.NewAllocator(cfg.Epsilon),
		classifier: decomposition.NewClassifier(cfg.ElectricityFuel),
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(runner)
	}
	if runner.workers < 1 {
		runner.workers = 1
	}
	return runner, nil
}

// cellInput is one assembled (scenario, region, group, year) cell.
type cellInput struct {
	key           decomposition.CellKey
	meta          decomposition.CellMeta
	family        grouping.SectorFamily
	actual        decomposition.Series
	baselineInput decomposition.Series
	mix           decomposition.Series
	production    baseline.Production
}

// Run executes one decomposition over the dataset. It returns a partial
// result together with the cell-scoped error report; only an empty dataset
// is a run-level error.
func (r *Runner) Run(ctx context.Context, dataset ingest.Dataset) (*Result, error) {
	if len(dataset.Energy) == 0 {
		return nil, ingest.ErrEmptyTable
	}
	start := time.Now()

	cells, tagErrors := r.assemble(dataset)

	result := &Result{
		Errors:        tagErrors,
		TotalsByEntry: make(map[decomposition.EntryType]float64),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan *cellInput)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cell := range work {
				rows, err := r.processCell(cell)
				mu.Lock()
				if err != nil {
					result.CellsFailed++
					result.Errors = append(result.Errors, CellError{
						Scenario: cell.key.Scenario,
						Region:   cell.key.Region,
						Group:    cell.key.Group,
						Year:     cell.key.Year,
						Reason:   reasonFor(err),
						Err:      err,
					})
				} else {
					result.CellsProcessed++
					result.Rows = append(result.Rows, rows...)
				}
				mu.Unlock()
			}
		}()
	}

	for _, cell := range cells {
		select {
		case work <- cell:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(work)
	wg.Wait()

	decomposition.SortRows(result.Rows)
	sortErrors(result.Errors)
	for _, row := range result.Rows {
		result.TotalsByEntry[row.EntryType] += row.Value
	}

	for _, cellErr := range result.Errors {
		metrics.IncCellError(cellErr.Reason)
	}
	metrics.ObserveRun(result.CellsProcessed, len(result.Rows), time.Since(start))
	if r.logger != nil {
		r.logger.Printf("decomposition run: cells=%d failed=%d rows=%d elapsed=%s",
			result.CellsProcessed, result.CellsFailed, len(result.Rows), time.Since(start))
	}
	return result, nil
}

func (r *Runner) processCell(cell *cellInput) ([]decomposition.OutputRow, error) {
	var base decomposition.Series
	var err error
	switch cell.family {
	case grouping.FamilyIndustry:
		base, err = r.builder.Industry(cell.key, cell.mix, cell.production, cell.actual)
	default:
		base = r.builder.Passthrough(cell.baselineInput)
	}
	if err != nil {
		return nil, err
	}

	alloc, err := r.allocator.Allocate(base, cell.actual)
	if err != nil {
		return nil, err
	}
	return r.classifier.Rows(cell.key, cell.meta, alloc), nil
}

// assemble groups raw records into cells. Rows with unmapped process
// identifiers become report entries, never silent drops.
func (r *Runner) assemble(dataset ingest.Dataset) ([]*cellInput, []CellError) {
	type mixKey struct {
		scenario string
		region   string
		group    string
	}

	cells := make(map[decomposition.CellKey]*cellInput)
	mixes := make(map[mixKey]decomposition.Series)
	productions := make(map[mixKey]*baseline.Production)
	var tagErrors []CellError

	tagError := func(scenario, region string, year int, err error) {
		tagErrors = append(tagErrors, CellError{
			Scenario: scenario,
			Region:   region,
			Year:     year,
			Reason:   reasonFor(err),
			Err:      err,
		})
	}

	for _, record := range dataset.Energy {
		group, err := r.grouper.Resolve(record.Process, record.Region)
		if err != nil {
			tagError(record.Scenario, record.Region, record.Year, err)
			continue
		}

		if record.Kind == ingest.KindCurrentMix {
			key := mixKey{record.Scenario, record.Region, group.Name}
			if mixes[key] == nil {
				mixes[key] = make(decomposition.Series)
			}
			mixes[key][record.Fuel] += record.Value
			continue
		}

		key := decomposition.CellKey{
			Scenario: record.Scenario,
			Region:   record.Region,
			Group:    group.Name,
			Year:     record.Year,
		}
		cell, ok := cells[key]
		if !ok {
			cell = &cellInput{
				key: key,
				meta: decomposition.CellMeta{
					Sector:         string(group.Family),
					Process:        group.Name,
					HydrogenSource: group.HydrogenSource,
					Unit:           decomposition.UnitPJ,
				},
				family:        group.Family,
				actual:        make(decomposition.Series),
				baselineInput: make(decomposition.Series),
			}
			cells[key] = cell
		}
		switch record.Kind {
		case ingest.KindActual:
			cell.actual[record.Fuel] += record.Value
		case ingest.KindBaselineInput:
			// The supplied baseline is the sum of two model-input series;
			// summing here makes that shape a plain consequence of the data.
			cell.baselineInput[record.Fuel] += record.Value
		}
	}

	for _, record := range dataset.Production {
		group, err := r.grouper.Resolve(record.Process, record.Region)
		if err != nil {
			tagError(record.Scenario, record.Region, record.Year, err)
			continue
		}
		key := mixKey{record.Scenario, record.Region, group.Name}
		prod, ok := productions[key]
		if !ok {
			prod = &baseline.Production{FutureByYear: make(map[int]float64)}
			productions[key] = prod
		}
		switch record.Kind {
		case ingest.KindCurrentProduction:
			prod.Current += record.Value
			prod.HasCurrent = true
		case ingest.KindFutureProduction:
			prod.FutureByYear[record.Year] += record.Value
		}
	}

	assembled := make([]*cellInput, 0, len(cells))
	for key, cell := range cells {
		lookup := mixKey{key.Scenario, key.Region, key.Group}
		if mix, ok := mixes[lookup]; ok {
			cell.mix = mix
		}
		if prod, ok := productions[lookup]; ok {
			cell.production = *prod
		}
		assembled = append(assembled, cell)
	}
	// Deterministic dispatch order; output order is fixed by the final sort
	// anyway, but stable iteration keeps logs and reports reproducible.
	sort.Slice(assembled, func(i, j int) bool {
		a, b := assembled[i].key, assembled[j].key
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Year < b.Year
	})
	return assembled, tagErrors
}
