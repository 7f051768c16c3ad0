// Package schema defines the type descriptors that inspector options are
// compiled from, and loads them from YAML.
//
// A schema file lists annotated types:
//
//	version: "1"
//	package: game
//	types:
//	  - name: Player
//	    fields:
//	      - name: Health
//	        type: float32
//	        inspector: "min = 0, max = 100"
//	      - name: cache
//	        type: "map[string]int"
//	        ignore: true
//	  - name: Shape
//	    kind: enum
//	    variants:
//	      - name: Circle
//	        fields:
//	          - {name: Radius, type: float32, inspector: "min = 0"}
//	      - name: Empty
//	  - name: Pair
//	    params: [{name: T}]
//	    fields:
//	      - {name: A, type: T}
//	    instances: [float32, int]
//
// The same descriptors are produced from Go source by package analyze.
package schema
