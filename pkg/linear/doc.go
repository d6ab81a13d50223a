// Package linear provides the exact arithmetic the closure table works in.
//
// Every relation handled by ratiochase is a linear equation over symbolic
// quantities:
//
//	c1*q1 + c2*q2 + ... + cn*qn = k
//
// where the coefficients ci are rationals and k is a constant of the
// quantities' kind. No floating point value ever enters this package.
//
// # Constants
//
// [Const] holds k. Its representation depends on the [quantity.Kind]:
//
//   - Angle constants are rational multiples of pi reduced modulo 1, because
//     line directions are only defined modulo pi. Multiplying an angle
//     constant is only defined for integer factors.
//   - Length constants live on a log scale: the ratio AB:CD = r becomes
//     log|AB| - log|CD| = log r. log r is stored as its vector of prime
//     exponents (log 12 = 2*log 2 + log 3), so two constants are equal exactly
//     when their vectors are, and log 2 and log 3 never compare equal.
//
// Rationals are factored by trial division up to 2^20. A larger cofactor
// with no small factor is kept as a single opaque basis element; two such
// cofactors that share a factor above the bound are then treated as
// independent, which can only make the closure table miss a relation, never
// invent one.
//
// # Terms
//
// [Term] is a sparse map from quantity to coefficient plus a constant.
// Coefficients of zero are never stored, so Len reports the number of
// quantities that actually occur.
//
//	t := linear.NewTerm(quantity.Length).
//		AddInt(ab, 1).AddInt(cd, -1).
//		WithConst(linear.MustRatio(big.NewRat(2, 1)))
//	// t asserts |ab| - |cd| = log 2, i.e. AB:CD = 2
package linear
