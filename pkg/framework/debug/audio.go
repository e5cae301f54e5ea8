package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer checks rendered audio for the failure modes a feedback
// network can produce: runaway gain, NaN propagation, DC buildup.
type AudioAnalyzer struct {
	detectClipping    bool
	detectDC          bool
	detectSilence     bool
	detectNaN         bool
	clippingThreshold float32
	dcThreshold       float32
	silenceThreshold  float32
}

// NewAudioAnalyzer creates a new audio analyzer with default thresholds.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		detectClipping:    true,
		detectDC:          true,
		detectSilence:     true,
		detectNaN:         true,
		clippingThreshold: 0.99,
		dcThreshold:       0.01,
		silenceThreshold:  0.0001,
	}
}

// AnalysisResult holds the outcome of AudioAnalyzer.Analyze.
type AnalysisResult struct {
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int
}

// Analyze computes peak, RMS, DC offset, clipping, and NaN statistics for
// a buffer of rendered samples.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{}
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64

	for _, sample := range buffer {
		if a.detectNaN && math.IsNaN(float64(sample)) {
			result.HasNaN = true
			result.NaNCount++
			continue
		}

		absSample := sample
		if absSample < 0 {
			absSample = -absSample
		}

		if absSample > result.Peak {
			result.Peak = absSample
		}
		if a.detectClipping && absSample >= a.clippingThreshold {
			result.Clipping = true
			result.ClippedSamples++
		}

		sum += float64(sample)
		sumSquares += float64(sample * sample)
	}

	result.RMS = float32(math.Sqrt(sumSquares / float64(len(buffer))))
	result.DC = float32(sum / float64(len(buffer)))
	if a.detectSilence && result.RMS < a.silenceThreshold {
		result.Silent = true
	}

	return result
}

// CheckBuffer runs Analyze and returns a human-readable issue for each
// threshold the buffer violates.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string

	analyzer := NewAudioAnalyzer()
	result := analyzer.Analyze(buffer)

	if result.HasNaN {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN values", name, result.NaNCount))
	}
	if result.Clipping {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, result.ClippedSamples))
	}
	if math.Abs(float64(result.DC)) > float64(analyzer.dcThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}
	if result.Peak > 4.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds safe ceiling (%.3f)", name, result.Peak))
	}

	return issues
}

var defaultAnalyzer = NewAudioAnalyzer()

// CheckAudioBuffer runs CheckBuffer and warns on every issue found, using
// the default logger.
func CheckAudioBuffer(buffer []float32, name string) {
	for _, issue := range CheckBuffer(buffer, name) {
		Warn("%s", issue)
	}
}

// LogBufferStats logs summary statistics for a rendered buffer.
func LogBufferStats(buffer []float32, name string) {
	result := defaultAnalyzer.Analyze(buffer)

	Info("buffer %q: peak=%.3f rms=%.3f dc=%.6f", name, result.Peak, result.RMS, result.DC)
	if result.Clipping {
		Warn("buffer %q: clipping in %d samples", name, result.ClippedSamples)
	}
	if result.HasNaN {
		Error("buffer %q: %d NaN values", name, result.NaNCount)
	}
}
