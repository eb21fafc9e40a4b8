// Package config loads expectation definitions from YAML or JSON files.
//
// A file holds a single expectation, a list of expectations, or a document
// with an expectations key:
//
//	version: "1"
//	expectations:
//	  - id: list-orders
//	    request:
//	      methods: [GET]
//	      paths: [/orders]
//	    response:
//	      statusCode: 200
//	      body: {"orders": []}
//
// File contents go through ${VAR} and ${VAR:-default} expansion before
// parsing. Load accepts plain paths and doublestar globs such as
// mocks/**/*.yaml.
package config
