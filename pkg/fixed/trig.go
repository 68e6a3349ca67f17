package fixed

import "math"

// sinLUT holds sin(d) for d = 0..90 degrees, scaled by One.
var sinLUT = [91]Fixed{
	0, 71, 143, 214, 286, 357, 428, 499, 570, 641,
	711, 782, 852, 921, 991, 1060, 1129, 1198, 1266, 1334,
	1401, 1468, 1534, 1600, 1666, 1731, 1796, 1860, 1923, 1986,
	2048, 2110, 2171, 2231, 2290, 2349, 2408, 2465, 2522, 2578,
	2633, 2687, 2741, 2793, 2845, 2896, 2946, 2996, 3044, 3091,
	3138, 3183, 3228, 3271, 3314, 3355, 3396, 3435, 3474, 3511,
	3547, 3582, 3617, 3650, 3681, 3712, 3742, 3770, 3798, 3824,
	3849, 3873, 3896, 3917, 3937, 3956, 3974, 3991, 4006, 4021,
	4034, 4046, 4056, 4065, 4074, 4080, 4086, 4090, 4094, 4095,
	4096,
}

const fullTurn = 360 * One

// quarterSin evaluates the table at d in [0, 90] degrees, interpolating
// linearly between whole degrees.
func quarterSin(d Fixed) Fixed {
	i := d.Int()
	if i >= 90 {
		return sinLUT[90]
	}
	lo := sinLUT[i]
	return lo + (sinLUT[i+1] - lo).Mul(d.Frac())
}

// Sin returns the sine of an angle given in fixed-point degrees.
func Sin(deg Fixed) Fixed {
	d := Wrap(deg, 0, fullTurn)
	switch {
	case d < 90*One:
		return quarterSin(d)
	case d < 180*One:
		return quarterSin(180*One - d)
	case d < 270*One:
		return -quarterSin(d - 180*One)
	default:
		return -quarterSin(fullTurn - d)
	}
}

// Cos returns the cosine of an angle given in fixed-point degrees.
func Cos(deg Fixed) Fixed {
	return Sin(deg + 90*One)
}

// Tan returns the tangent of an angle given in fixed-point degrees. The
// result is undefined where the cosine is zero.
func Tan(deg Fixed) Fixed {
	return Sin(deg).Div(Cos(deg))
}

// Asin returns the angle in fixed-point degrees, in [-90, 90], whose sine
// is closest to sine. The result has whole-degree resolution.
func Asin(sine Fixed) Fixed {
	abs := Abs(sine)
	deg := 90
	for i := 1; i < len(sinLUT); i++ {
		lo, hi := sinLUT[i-1], sinLUT[i]
		if abs > lo && abs <= hi {
			deg = i
			if abs < lo+(hi-lo)>>1 {
				deg--
			}
			break
		}
	}
	if abs == 0 {
		deg = 0
	}
	if sine < 0 {
		return -FromInt(deg)
	}
	return FromInt(deg)
}

// Acos returns the angle in fixed-point degrees, in [0, 180], whose cosine
// is closest to cosine.
func Acos(cosine Fixed) Fixed {
	return 90*One - Asin(cosine)
}

// Degrees converts radians to fixed-point degrees.
func Degrees(radians float64) Fixed {
	return FromFloat(radians * 180 / math.Pi)
}

// Atan2 returns the angle of the point (x, y) in fixed-point degrees, in
// (-180, 180]. The result has whole-degree resolution.
func Atan2(y, x Fixed) Fixed {
	h := Sqrt(x.Mul(x) + y.Mul(y))
	if h == 0 {
		return 0
	}
	a := Asin(Clamp(y.Div(h), -One, One))
	switch {
	case x >= 0:
		return a
	case y >= 0:
		return 180*One - a
	default:
		return -180*One - a
	}
}
