package rawcv

import (
	"fmt"
	"math"
)

// StatFlags selects which statistics Stats computes beyond min and max.
type StatFlags int

const (
	StatNone   StatFlags = 0
	StatMedian StatFlags = 1
	StatMean   StatFlags = 2
	StatStdDev StatFlags = 4
	StatAll    StatFlags = StatMedian | StatMean | StatStdDev
)

// ChannelStats holds statistics for one channel, in sample units.
type ChannelStats struct {
	Min    float64
	Max    float64
	Median float64
	Mean   float64
	StdDev float64
}

func (s ChannelStats) String() string {
	return fmt.Sprintf("{Min=%g, Max=%g, Median=%g, Mean=%f, StdDev=%f}", s.Min, s.Max, s.Median, s.Mean, s.StdDev)
}

// histBuckets is the median histogram resolution. Integer samples land in
// their own bucket; F32 samples are bucketed over [0, 1].
const histBuckets = 1 << 16

// Stats computes per-channel statistics of any valid array. NaN samples are
// skipped. The median is exact for U8 and U16 and accurate to one bucket
// (1/65536) for F32 samples in [0, 1].
func Stats(a *Array, flags StatFlags) ([]ChannelStats, error) {
	if err := checkArray(a, "array"); err != nil {
		return nil, err
	}

	channels := a.Channels()
	out := make([]ChannelStats, channels)
	for c := 0; c < channels; c++ {
		var s ChannelStats
		switch a.DType {
		case U8:
			s = channelStats(a.Uint8s(), c, channels, flags, func(v uint8) int { return int(v) })
		case U16:
			s = channelStats(a.Uint16s(), c, channels, flags, func(v uint16) int { return int(v) })
		case F32:
			s = channelStats(a.Float32s(), c, channels, flags, floatBucket)
			if flags&StatMedian != 0 {
				s.Median /= histBuckets
			}
		}
		out[c] = s
	}
	return out, nil
}

func floatBucket(v float32) int {
	idx := int(math.Floor(float64(v) * histBuckets))
	if idx < 0 {
		return 0
	}
	if idx >= histBuckets {
		return histBuckets - 1
	}
	return idx
}

func channelStats[T sample](pix []T, c, channels int, flags StatFlags, bucket func(T) int) ChannelStats {
	var (
		s         = ChannelStats{Min: math.Inf(1), Max: math.Inf(-1)}
		histogram []uint32
		n         int64
		sum       float64
	)
	if flags&StatMedian != 0 {
		histogram = make([]uint32, histBuckets)
	}

	for i := c; i < len(pix); i += channels {
		v := float64(pix[i])
		if math.IsNaN(v) {
			continue
		}
		n++
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if histogram != nil {
			histogram[bucket(pix[i])]++
		}
	}
	if n == 0 {
		return ChannelStats{}
	}

	if histogram != nil {
		target := (n + 1) / 2
		var count int64
		for i, h := range histogram {
			count += int64(h)
			if count >= target {
				s.Median = float64(i)
				break
			}
		}
	}

	if flags&(StatMean|StatStdDev) != 0 {
		s.Mean = sum / float64(n)
	}
	if flags&StatStdDev != 0 && n > 1 {
		var sse float64
		for i := c; i < len(pix); i += channels {
			v := float64(pix[i])
			if math.IsNaN(v) {
				continue
			}
			d := v - s.Mean
			sse += d * d
		}
		s.StdDev = math.Sqrt(sse / float64(n-1))
	}
	return s
}
