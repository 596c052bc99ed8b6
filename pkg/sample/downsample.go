package sample

// DownsampleSamples downsamples a slice of samples to a maximum number of points
// by decimation. The newest sample is always kept so plots end at the latest reading.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
func DownsampleSamples(dst []Sample, samples []Sample, maxPoints int) []Sample {
	if maxPoints <= 0 {
		return dst[:0]
	}

	if len(samples) <= maxPoints {
		if cap(dst) >= len(samples) {
			dst = dst[:len(samples)]
			copy(dst, samples)
			return dst
		}
		result := make([]Sample, len(samples))
		copy(result, samples)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Sample, 0, maxPoints)
	}

	step := float64(len(samples)) / float64(maxPoints)
	for i := 0; i < maxPoints-1; i++ {
		dst = append(dst, samples[int(float64(i)*step)])
	}
	dst = append(dst, samples[len(samples)-1])

	return dst
}
