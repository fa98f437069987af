// Package focality estimates the full width at half maximum (FWHM) of a
// measured 1-D field amplitude profile, tolerant to measurement noise.
//
// The profile is smoothed by a least-squares polynomial fit, rescaled so the
// fitted maximum is exactly 1 while the minimum stays fixed, and rectified
// before peak detection. Widths are measured on the rectified curve at a
// configurable height below each peak, by default 1-1/√2 of the peak
// prominence (the -3 dB point of the lobe):
//
//	res, err := focality.Estimate(positions, amplitudes, focality.Config{})
//	if err != nil {
//	    // ...
//	}
//	fmt.Printf("FWHM %.2f mm\n", res.FWHM)
//
// The estimator is a pure function of its inputs: it performs no I/O and
// keeps no state. An optional Visualizer callback receives the intermediate
// curves for diagnostic plotting and never influences the returned values.
package focality
