// Package powersim is your in-memory playground for simulation-based
// statistical power analysis of linear and mixed-effects designs — from
// factorial design construction to empirical power estimation.
//
// 🚀 What is powersim?
//
//	A deterministic, embeddable library that brings together:
//		• Seeded variate sources: normal, Bernoulli, categorical, multivariate normal
//		• Design builders: crossed & between-participant factorials, nesting groups
//		• Random-effects sampling: intercepts, slopes, correlated pairs per grouping level
//		• Response synthesis: identity & logit links, per-row residual noise
//		• Power estimation: parallel repetitions, skip-and-count fit failures
//
// ✨ Why choose powersim?
//
//   - Reproducible – every draw flows through an explicit, seedable source;
//     the same seed yields the same power estimate at any worker count
//   - Rock-solid guarantees – strict sentinel errors, no panics on user input
//   - Pure Go – gonum for the numerics, nothing hidden behind cgo
//   - Extensible – the model-fitting boundary is a one-method interface;
//     plug in any estimator that returns p-values
//
// Under the hood, everything is organized under six subpackages:
//
//	variate/ — seeded random variate source (normal, Bernoulli, categorical, MVN)
//	design/  — factorial design tables, contrast coding, nesting assignment
//	effects/ — per-level random-effect sampling (optionally correlated)
//	synth/   — response synthesis under identity or logit links
//	fit/     — reference ordinary-least-squares collaborator
//	power/   — repetition driver and empirical power aggregation
//
// Quick sketch of one repetition:
//
//	design → sample effects → synthesize response → fit → record p-value
//
// Dive into the per-package doc.go files for contracts, complexity notes
// and worked examples.
//
//	go get github.com/katalvlaran/powersim
package powersim
