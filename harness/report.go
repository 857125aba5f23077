package harness

import (
	"io"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/tezrry/spinbench/container/counter"
)

// Report is one drained interval.
type Report struct {
	Seq     uint64
	At      time.Time
	Sum     uint64
	Elapsed time.Duration
	// Rate is in operations per microsecond.
	Rate      float64
	PerWorker []uint64

	Min, Max uint64
	// Fairness is Jain's index of PerWorker: 1 when every worker got the
	// same share, 1/n when one worker got everything, 0 without operations.
	Fairness float64
}

func newReport(seq uint64, at time.Time, elapsed time.Duration, perWorker []uint64) *Report {
	r := &Report{
		Seq:       seq,
		At:        at,
		Sum:       counter.Sum(perWorker),
		Elapsed:   elapsed,
		PerWorker: perWorker,
	}

	if elapsed > 0 {
		r.Rate = float64(r.Sum) / float64(elapsed.Nanoseconds()) * 1000
	}

	var squares float64
	for i, v := range perWorker {
		if i == 0 || v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
		squares += float64(v) * float64(v)
	}
	if squares > 0 {
		sum := float64(r.Sum)
		r.Fairness = sum * sum / (float64(len(perWorker)) * squares)
	}

	return r
}

// AppendLine appends the report line:
//
//	<label>: S over D speed: X op/mcs; c0 c1 ... cN-1
//
// with D in nanoseconds and the counts in worker index order.
func (r *Report) AppendLine(b []byte, label string) []byte {
	b = append(b, label...)
	b = append(b, ": "...)
	b = strconv.AppendUint(b, r.Sum, 10)
	b = append(b, " over "...)
	b = strconv.AppendInt(b, r.Elapsed.Nanoseconds(), 10)
	b = append(b, " speed: "...)
	b = strconv.AppendFloat(b, r.Rate, 'f', 6, 64)
	b = append(b, " op/mcs;"...)
	for _, v := range r.PerWorker {
		b = append(b, ' ')
		b = strconv.AppendUint(b, v, 10)
	}
	return append(b, '\n')
}

func (r *Report) String() string {
	b := r.AppendLine(nil, "sum")
	return string(b[:len(b)-1])
}

// WriteTo writes the interval line of r to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = r.AppendLine(buf.B, "sum")
	n, err := w.Write(buf.B)
	return int64(n), err
}

func (inst *Harness) emit(r *Report) {
	if _, err := r.WriteTo(inst.config.Output); err != nil {
		inst.config.Logger.Errorf("harness: write report %d: %v", r.Seq, err)
	}

	inst.config.Logger.Debugf("harness: interval %d sum=%d elapsed=%s rate=%.3f op/mcs min=%d max=%d fairness=%.4f",
		r.Seq, r.Sum, r.Elapsed, r.Rate, r.Min, r.Max, r.Fairness)

	if inst.config.OnReport != nil {
		inst.config.OnReport(r)
	}
}

func (inst *Harness) writeBanner() {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Params: workers: ")
	buf.B = strconv.AppendInt(buf.B, int64(inst.config.Workers), 10)
	_, _ = buf.WriteString("; spinlock version: ")
	_, _ = buf.WriteString(inst.lockName)
	_, _ = buf.WriteString(";\n")
	if _, err := inst.config.Output.Write(buf.B); err != nil {
		inst.config.Logger.Errorf("harness: write banner: %v", err)
	}
}

// writeSummary reports the whole run, from Run's start to end.
func (inst *Harness) writeSummary(end time.Time) {
	r := newReport(inst.seq, end, end.Sub(inst.start), inst.Totals())

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = r.AppendLine(buf.B, "total")
	if _, err := inst.config.Output.Write(buf.B); err != nil {
		inst.config.Logger.Errorf("harness: write summary: %v", err)
	}

	inst.config.Logger.Infof("harness: %d operations over %s, %.3f op/mcs, min=%d max=%d fairness=%.4f",
		r.Sum, r.Elapsed, r.Rate, r.Min, r.Max, r.Fairness)
}
