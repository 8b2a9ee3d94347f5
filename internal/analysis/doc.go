// Package analysis inspects recorded rope runs.
//
//   - [PowerSpectrum]: one-sided power of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency of a series
//   - [SettleTime]: time after which a series stays inside a band
//   - [TraceToASCII]: character plot of a tip trajectory
//
// A swinging rope's tip x coordinate makes a good spectrum input:
//
//	ps := analysis.PowerSpectrum(result.TipSeries(0), sampleDt)
//	f := ps.Dominant()
package analysis
