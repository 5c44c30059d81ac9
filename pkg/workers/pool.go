// Package workers runs per-document jobs across a fixed-size goroutine pool.
package workers

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// DefaultFraction is the share of cores used when none is configured.
const DefaultFraction = 0.7

// Size returns floor(fraction * cores), never less than one.
func Size(fraction float64, cores int) int {
	n := int(math.Floor(fraction * float64(cores)))
	if n < 1 {
		return 1
	}
	return n
}

// SizeFromCPU applies Size to the cores available to this process.
// A positive override wins over the fraction.
func SizeFromCPU(fraction float64, override int) int {
	if override > 0 {
		return override
	}
	return Size(fraction, runtime.NumCPU())
}

// Outcome is the result of one job. Index is the job's position in the input.
type Outcome[R any] struct {
	Index int
	Value R
	Err   error
}

type job[T any] struct {
	index int
	item  T
}

// Map applies fn to every item using n workers and blocks until all jobs are
// done. Outcomes come back in input order. A failing or panicking job only
// affects its own outcome.
func Map[T, R any](n int, items []T, fn func(T) (R, error)) []Outcome[R] {
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}

	var wg sync.WaitGroup
	jobs := make(chan job[T], len(items))
	results := make(chan Outcome[R], len(items))

	for w := 1; w <= n; w++ {
		wg.Add(1)
		go worker(&wg, fn, jobs, results)
	}

	for i, item := range items {
		jobs <- job[T]{index: i, item: item}
	}
	close(jobs)

	wg.Wait()
	close(results)

	outcomes := make([]Outcome[R], len(items))
	for result := range results {
		outcomes[result.Index] = result
	}
	return outcomes
}

func worker[T, R any](wg *sync.WaitGroup, fn func(T) (R, error), jobs <-chan job[T], results chan<- Outcome[R]) {
	defer wg.Done()
	for j := range jobs {
		results <- run(j, fn)
	}
}

func run[T, R any](j job[T], fn func(T) (R, error)) (out Outcome[R]) {
	out.Index = j.index
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("job %d panicked: %v", j.index, r)
		}
	}()
	out.Value, out.Err = fn(j.item)
	return out
}
