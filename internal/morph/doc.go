// Package morph advances the live particle buffer one frame at a time.
//
// The [Engine] owns the live positions and applies one of two kinematics per
// call, chosen by the external [cloud.Mode]:
//
//   - settled (and unknown): exponential homing toward the cached target plus
//     a small X shimmer
//   - dispersed: constant per-particle velocity, a vertical wrap band and a
//     swirl on X
//
// There is no transition state. Whatever positions exist when the mode flips
// are where the new kinematics start.
//
//	eng, _ := morph.New(target, velocity, morph.DefaultParams())
//	for frame := 0; ; frame++ {
//	    eng.Step(mode, dt, elapsed)
//	    upload(eng.Live())
//	}
//
// # Thread Safety
//
// An Engine is NOT safe for concurrent use. Read [Engine.Live] only between
// calls to [Engine.Step].
package morph
