// Package config loads the synthbal configuration.
//
// Precedence: environment (SYNTHBAL_*) > YAML file > Default(). Every field
// is checked with go-playground/validator tags after the merge, and the
// result converts into the option structs of balance, synth, cv and panel.
//
//	logging:
//	  level: info        # debug | info | warn | error
//	  format: json       # json | text
//	fit:
//	  method: balance    # balance | synth | completion
//	  link: logit
//	  regularizer: l1
//	  lambda: 0.5
//	  calibrate: {enabled: true, start: 0, end: 10, by: 0.1}
//	cv:
//	  method: kfold
//	  grid: [0.1, 0.5, 1, 2]
//
// Environment names follow the YAML nesting: SYNTHBAL_FIT_LAMBDA,
// SYNTHBAL_CV_GRID=0.1,0.5,1 and so on.
package config
