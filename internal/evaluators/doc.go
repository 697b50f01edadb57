// Package evaluators contains the concrete detection rules run by the
// analysis engine: corporation history, combat record, wallet forensics,
// activity patterns, assets, standings, the alt network, the optional
// trained-model scorer, and administrator-authored screening rules.
//
// Every evaluator is stateless across calls and safe for concurrent use.
// Threshold constants live next to the evaluator that owns them.
package evaluators
