// Package analysis post-processes recorded field data.
//
//   - [ComputeSpectrum]: magnitude spectrum of a probe time series
//   - [Spectrum.Dominant]: the strongest non-DC frequency
//   - [ReflectionRatio]: residual field amplitude of one run relative to another
//
// # Probe Spectrum
//
// A probe records E at one node after every step, so its sample interval
// is the solver time step:
//
//	spec, err := analysis.ComputeSpectrum(res.ProbeE, solver.Params().Dt)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("dominant: %.3e Hz\n", spec.Dominant())
package analysis
