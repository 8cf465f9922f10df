package analysis

import "math"

// window keeps the most recent capacity values in a ring buffer.
// Statistics are only reported once the window is full.
type window struct {
	capacity int
	values   []float64
	position int
	samples  int
}

func newWindow(capacity int) *window {
	if capacity <= 0 {
		capacity = 1
	}
	return &window{
		capacity: capacity,
		values:   make([]float64, capacity),
	}
}

func (w *window) push(v float64) {
	w.values[w.position] = v
	w.position = (w.position + 1) % w.capacity
	if w.samples < w.capacity {
		w.samples++
	}
}

func (w *window) full() bool {
	return w.samples == w.capacity
}

func (w *window) mean() float64 {
	if !w.full() {
		return math.NaN()
	}
	return mean(w.values)
}

// std is the sample standard deviation (denominator N-1) of the full window.
func (w *window) std() float64 {
	if !w.full() {
		return math.NaN()
	}
	return sampleStd(w.values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is NaN for fewer than two values.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
