// Package astro provides the orbital arithmetic used by the keplerian mean
// function and by post-analysis of radial-velocity fits.
package astro

import (
	"math"
	"sort"
)

// SemiAmplitude returns the RV semi-amplitude K (m/s) induced by a planet of
// mass mPlanet (Jupiter masses, strictly M sin i) on a star of mass mStar
// (solar masses), for a period in years and eccentricity ecc.
func SemiAmplitude(periodYears, mPlanet, mStar, ecc float64) float64 {
	per := math.Cbrt(1 / periodYears)
	smass := math.Pow(1/mStar, 2.0/3.0)
	e := 1 / math.Sqrt(1-ecc*ecc)
	return 28.435 * per * mPlanet * smass * e
}

// trueAnomaly solves Kepler's equation for the true anomaly at each mean
// anomaly, by fixed-point iteration on the eccentric anomaly.
func trueAnomaly(meanAnom []float64, e float64) []float64 {
	const iters = 100

	ecc0 := make([]float64, len(meanAnom))
	for i, m := range meanAnom {
		// Initial guess E0 = M + e sin M + e^2/2 sin 2M.
		ecc0[i] = m + e*math.Sin(m) + 0.5*e*e*math.Sin(2*m)
	}
	m0 := make([]float64, len(meanAnom))
	for i, x := range ecc0 {
		m0[i] = x - e*math.Sin(x)
	}
	for it := 0; it < iters; it++ {
		for i := range ecc0 {
			ecc0[i] += (meanAnom[i] - m0[i]) / (1 - e*math.Cos(ecc0[i]))
		}
		for i, x := range ecc0 {
			m0[i] = x - e*math.Sin(x)
		}
	}

	nu := make([]float64, len(ecc0))
	f := math.Sqrt((1 + e) / (1 - e))
	for i, x := range ecc0 {
		nu[i] = 2 * math.Atan(f*math.Tan(x/2))
	}
	return nu
}

// KeplerianRV simulates the radial-velocity signal of a planet on a
// keplerian orbit: period P (days), semi-amplitude K, eccentricity e,
// longitude of periastron w, zero phase T0 and systemic velocity gamma.
func KeplerianRV(t []float64, P, K, e, w, T0, gamma float64) []float64 {
	meanAnom := make([]float64, len(t))
	for i, x := range t {
		meanAnom[i] = 2 * math.Pi * (x - T0) / P
	}
	nu := trueAnomaly(meanAnom, e)
	rv := make([]float64, len(t))
	for i, v := range nu {
		rv[i] = gamma + K*(e*math.Cos(w)+math.Cos(w+v))
	}
	return rv
}

// PhaseFolding folds the series (t, y, yerr) at the given period and sorts
// by phase. A nil yerr is treated as all zeros.
func PhaseFolding(t, y, yerr []float64, period float64) (phase, foldedY, foldedErr []float64) {
	if yerr == nil {
		yerr = make([]float64, len(y))
	}
	type point struct{ ph, y, err float64 }
	pts := make([]point, len(t))
	for i := range t {
		ph := math.Mod(t[i]/period, 1)
		if ph < 0 {
			ph++
		}
		pts[i] = point{ph, y[i], yerr[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].ph < pts[j].ph })

	phase = make([]float64, len(pts))
	foldedY = make([]float64, len(pts))
	foldedErr = make([]float64, len(pts))
	for i, p := range pts {
		phase[i] = p.ph
		foldedY[i] = p.y
		foldedErr[i] = p.err
	}
	return phase, foldedY, foldedErr
}
