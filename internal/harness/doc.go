// Package harness runs reasoning scenarios against a fresh reasoner and
// checks what it concluded.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: deduction_chain
//	description: "A chain of inheritances yields the transitive belief"
//	cycles: 200
//	config:
//	  emission_threshold: 1
//	input:
//	  - "<raven --> bird>."
//	  - "<bird --> animal>."
//	  - "10"
//	  - "<raven --> animal>?"
//	assertions:
//	  - type: belief
//	    term: "<raven --> animal>"
//	    frequency: 1.0
//	    confidence: 0.81
//	  - type: answer
//	    question: "<raven --> animal>?"
//
// Input lines are fed the way `nars run` reads a batch file: a line holding
// only a number N delays the lines after it by N cycles.
//
// # Assertion Types
//
//   - belief: the concept of term holds a best belief, optionally with the
//     given truth (within tolerance, default 0.01)
//   - no_belief: the concept of term is absent or holds no belief
//   - concept: memory holds a concept for term
//   - answer: an answer was emitted for question, optionally with the given
//     truth for the latest answer
//   - emitted: an event of kind with exactly the rendered sentence was emitted
//
// # Deterministic Runs
//
// A scenario runs exactly its cycles with the seed from its config and a
// reasoner id equal to its name, so traces are identical across runs and
// can be compared against golden files under testdata/golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/deduction.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
