// Package similarity scores candidate strains against a user's ideal
// terpene profile. Everything here is deterministic and does no I/O.
package similarity

import (
	"math"

	"github.com/terpmatch/terpmatch/model"
)

const (
	// epsilon guards the degenerate divisions (zero magnitude, zero
	// variance, constant vectors).
	epsilon = 1e-10

	cosineWeight    = 0.50
	euclideanWeight = 0.25
	pearsonWeight   = 0.25
)

// assumedMaxDistance is the fixed heuristic bound for the distance between
// two z-scored vectors. It is not a derived true maximum; downstream score
// thresholds were calibrated against this exact formula, so keep it as is.
func assumedMaxDistance(dims int) float64 {
	return math.Sqrt(float64(dims) * 4)
}

// ZScore standardizes a vector by (x-mean)/std. A constant (or near
// constant) vector maps to all zeros instead of dividing by ~0.
func ZScore(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	mean := 0.0
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	variance := 0.0
	for _, x := range v {
		d := x - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(v)))
	if std < epsilon {
		return out
	}
	for i, x := range v {
		out[i] = (x - mean) / std
	}
	return out
}

// BuildIdealProfile aggregates the liked strains' terpene vectors by
// per-dimension maximum. MAX pooling preserves peak affinities that plain
// averaging would dilute. Empty input yields the zero vector.
func BuildIdealProfile(strains []model.StrainData) model.TerpeneVector {
	var profile model.TerpeneVector
	for _, s := range strains {
		for i, v := range s.Terpenes {
			if v > profile[i] {
				profile[i] = v
			}
		}
	}
	return profile
}

// CosineSimilarity computes cosine similarity remapped from [-1,1] to
// [0,1]. Near-zero-magnitude inputs score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA < epsilon || magB < epsilon {
		return 0
	}
	return clamp01((dot/(magA*magB) + 1) / 2)
}

// EuclideanSimilarity maps euclidean distance onto [0,1] via
// 1 - distance/assumedMaxDistance, clamped.
func EuclideanSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return clamp01(1 - math.Sqrt(sum)/assumedMaxDistance(len(a)))
}

// PearsonCorrelation computes the Pearson coefficient remapped from [-1,1]
// to [0,1]. Zero-variance inputs score 0.
func PearsonCorrelation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA < epsilon || varB < epsilon {
		return 0
	}
	r := cov / math.Sqrt(varA*varB)
	return clamp01((r + 1) / 2)
}

// CalculateMatch scores one strain against the ideal profile. The profile
// and the strain vector are z-scored independently (each against its own
// mean/std) before the cosine and euclidean sub-scores; Pearson runs on
// the original vectors since it is already scale invariant.
func CalculateMatch(profile model.TerpeneVector, strain model.StrainData) model.SimilarityResult {
	zProfile := ZScore(profile.Slice())
	zStrain := ZScore(strain.Terpenes.Slice())

	cosine := CosineSimilarity(zProfile, zStrain)
	euclidean := EuclideanSimilarity(zProfile, zStrain)
	pearson := PearsonCorrelation(profile.Slice(), strain.Terpenes.Slice())

	overall := cosineWeight*cosine + euclideanWeight*euclidean + pearsonWeight*pearson

	return model.SimilarityResult{
		Strain:    strain,
		Overall:   clamp01(overall),
		Cosine:    clamp01(cosine),
		Euclidean: clamp01(euclidean),
		Pearson:   clamp01(pearson),
	}
}

// Rank scores every candidate against the profile and returns results
// sorted by overall score, best first. Ties keep input order.
func Rank(profile model.TerpeneVector, candidates []model.StrainData) []model.SimilarityResult {
	results := make([]model.SimilarityResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, CalculateMatch(profile, c))
	}
	// insertion sort keeps equal scores in input order
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Overall > results[j-1].Overall; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	return results
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
