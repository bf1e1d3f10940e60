package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/snowglobe/internal/cloud"
)

type Runner struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(st Stepper) *Runner {
	return &Runner{
		stepper:   st,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps through every segment of the schedule at a fixed dt. On
// cancellation the partial result is returned with ctx's error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	total := 0
	for _, seg := range cfg.Schedule {
		total += seg.Frames(cfg.Dt)
	}
	result := &Result{
		Times:   make([]float64, 0, total),
		Modes:   make([]cloud.Mode, 0, total),
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	step := 0
	for i, seg := range cfg.Schedule {
		if seg.Silhouette != "" {
			rt, ok := r.stepper.(Retargeter)
			if !ok {
				return result, fmt.Errorf("segment %d: stepper cannot change silhouette", i+1)
			}
			if err := rt.SetSilhouette(seg.Silhouette, seg.Text); err != nil {
				return result, fmt.Errorf("segment %d: %w", i+1, err)
			}
		}

		for n := seg.Frames(cfg.Dt); n > 0; n-- {
			select {
			case <-ctx.Done():
				r.finish(result)
				return result, ctx.Err()
			default:
			}

			r.stepper.Advance(seg.Mode, cfg.Dt)
			f := Frame{
				Step:   step,
				Time:   r.stepper.Elapsed(),
				Mode:   seg.Mode,
				Live:   r.stepper.Live(),
				Target: r.stepper.Target(),
			}
			for _, m := range r.metrics {
				m.Observe(f)
				if s, ok := m.(Sampler); ok {
					result.Series[m.Name()] = append(result.Series[m.Name()], s.Last())
				}
			}
			for _, obs := range r.observers {
				obs.OnFrame(f)
			}

			result.Times = append(result.Times, f.Time)
			result.Modes = append(result.Modes, f.Mode)
			result.Steps++
			step++
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	return cfg.Schedule.Validate()
}
