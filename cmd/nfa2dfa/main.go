// Command nfa2dfa validates, converts and renders nondeterministic finite
// automata.
package main

func main() {
	Execute()
}
