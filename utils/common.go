package utils

// ERROR_SWITCH_MAX caps the squared residual above which the polynomial solvers
// keep running CG steps even after the preset number of warm up iterations.
const ERROR_SWITCH_MAX = 1.0
