/*
Package dsl provides a fluent builder for delta automata with named states.

Instead of allocating ids and laying out rows column by column, callers name
their states and list transitions; Build derives the alphabet, shares one
transition row between states with identical transitions and returns the
configured automaton.

Example usage:

	// Even number of 1s.
	b := dsl.New()
	b.Add("even").Start().Accept().On('0', "even").On('1', "odd")
	b.Add("odd").On('0', "odd").On('1', "even")

	m, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m.Check("0110").Verdict) // accept
*/
package dsl
