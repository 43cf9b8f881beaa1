package main

import (
	"spendwise/internal/backend"
	"spendwise/internal/core"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 spendwise-cli.
func completion() *complete.Command {
	currencies := predict.Set(currencyNames())
	var categories predict.Set
	for _, c := range core.Categories() {
		categories = append(categories, string(c))
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"backend": predict.Set(backend.TypeStrings()),
			"db":      predict.Files("*.db"),
			"base":    currencies,
		},
		Sub: map[string]*complete.Command{
			"add": {
				Flags: map[string]complete.Predictor{
					"amount":   predict.Something,
					"currency": currencies,
					"category": categories,
					"date":     predict.Something,
					"desc":     predict.Something,
				},
			},
			"delete": {
				Flags: map[string]complete.Predictor{"yes": predict.Nothing},
				Args:  predict.Something,
			},
			"list": {
				Flags: map[string]complete.Predictor{"n": predict.Something},
			},
			"summary":  {},
			"trend":    {},
			"ask":      {Args: predict.Something},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
