// Package regression fits models to a set of data points.
//
// A Model is a function of x with a fixed number of coefficients. Fit finds
// the coefficients that minimize the squared residuals with Gauss-Newton
// steps built from the model's partial derivatives. The cubic model is
// linear in its coefficients, so one step reaches the least-squares
// solution and later steps only confirm it.
package regression
