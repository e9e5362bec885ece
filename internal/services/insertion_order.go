package services

import (
	"fmt"

	"schemascope/internal/models"
)

// CircularDependencyError reports a true cycle among foreign key
// dependencies. It names the table that was reached a second time while its
// own dependencies were still being resolved.
type CircularDependencyError struct {
	Table string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected involving table %q", e.Table)
}

type visitState uint8

const (
	stateUnvisited visitState = iota
	stateInProgress
	stateDone
)

// ResolveInsertionOrder returns the table names ordered so that every table
// appears after all tables it depends on. Given the same table list the
// output is reproducible: tables are processed in input order and each
// dependency list is walked in foreign key order.
//
// Dependencies pointing outside the analyzed set are treated as already
// satisfied. A table referencing itself is not a cycle; rows of such a table
// can be inserted with the self-column NULL or deferred. Duplicate entries in
// a dependency list are cheap revisits of an already ordered table.
func ResolveInsertionOrder(tables []models.Table) ([]string, error) {
	dependsOn := make(map[string][]string, len(tables))
	for _, t := range tables {
		dependsOn[t.Name] = t.DependsOn
	}

	state := make(map[string]visitState, len(tables))
	order := make([]string, 0, len(tables))

	type frame struct {
		name string
		next int
	}

	for _, t := range tables {
		if state[t.Name] != stateUnvisited {
			continue
		}

		state[t.Name] = stateInProgress
		stack := []frame{{name: t.Name}}

	walk:
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			deps := dependsOn[f.name]

			for f.next < len(deps) {
				dep := deps[f.next]
				f.next++

				if dep == f.name {
					continue // self-reference, not a cycle
				}
				if _, known := dependsOn[dep]; !known {
					continue // referenced table is outside the analyzed schema
				}

				switch state[dep] {
				case stateDone:
					// already ordered, nothing to do
				case stateInProgress:
					return nil, &CircularDependencyError{Table: dep}
				default:
					state[dep] = stateInProgress
					stack = append(stack, frame{name: dep})
					continue walk
				}
			}

			state[f.name] = stateDone
			order = append(order, f.name)
			stack = stack[:len(stack)-1]
		}
	}

	return order, nil
}
