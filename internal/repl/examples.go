package repl

import (
	"fmt"
	"strconv"
	"strings"
)

var exampleQueries = []string{
	"What is Luke Skywalker's relationship to Darth Vader?",
	"How did Luke become a Jedi?",
	"What happened to Luke in the sequel trilogy?",
	"Who trained Luke Skywalker?",
}

// exampleFromArg returns the example with the given 1-based index.
func exampleFromArg(arg string) (string, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return "", fmt.Errorf("'%v' is not an example number", arg)
	}
	if i < 1 || i > len(exampleQueries) {
		return "", fmt.Errorf("example number must be between 1 and %v", len(exampleQueries))
	}
	return exampleQueries[i-1], nil
}
